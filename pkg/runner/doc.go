/*
Package runner drives a conversation from a local terminal or a JSON-lines pipe.

The runner reads one line per turn, sanitizes it, hands it to a
ports.MessageProcessor and writes the reply back through an IOHandler. It is what
`canvass chat` uses to try a campaign without a messaging channel.

# Usage

	r := runner.NewRunner(
		runner.WithProcessor(engine),
		runner.WithUser("local"),
		runner.WithCampaign("pesquisa-2024"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
