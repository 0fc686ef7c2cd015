package main

import "chainflow/cmd"

func main() {
	cmd.Execute()
}
