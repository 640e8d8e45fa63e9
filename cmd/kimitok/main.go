// Command kimitok is the CLI entrypoint for the tokenizer engine.
package main

import "github.com/moonshotai/kimi-tokenizer/internal/commands"

var version = "dev"

func main() {
	commands.Execute(version)
}
