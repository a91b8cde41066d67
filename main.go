package main

import "github.com/deepchat-dev/deepchat/cmd"

func main() {
	cmd.Execute()
}
