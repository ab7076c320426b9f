/*
Package canvass runs conversational surveys and petitions over asynchronous
messaging channels such as WhatsApp.

A campaign is an ordered list of questions. Each inbound message is one turn:
the engine loads the sender's session, validates the answer against the current
question, persists it, decides the next question (option jumps, then answer
conditions, then the next unconditional question) and returns the reply to send.

# Campaign files

	id: census
	code: PESQ01
	kind: survey
	outro: Thanks!
	questions:
	  - id: 1
	    kind: choice
	    prompt: Do you vote?
	    options: [Yes, No]
	  - id: 2
	    kind: choice
	    prompt: Which party?
	    condition: Yes
	    options: [A, B]
	  - id: 3
	    kind: free_text
	    prompt: Your ID number?
	    validator: checksum-id

# Usage

	eng, err := canvass.New("./campaigns", canvass.WithLocale("pt-BR"))
	if err != nil {
		log.Fatal(err)
	}

	reply, err := eng.Process(ctx, "5511999990000", "census", "participar")
	if err != nil {
		logger.Warn("message not processed", "err", err)
	}
	send(reply.Text)

Sessions live in memory unless a store is injected with WithSessionStore
(see pkg/adapters for Redis, SQL and file stores).
*/
package canvass
