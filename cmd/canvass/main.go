// Command canvass runs conversational surveys and petitions over HTTP
// webhooks, MCP or a local terminal.
package main

func main() {
	Execute()
}
