package main

import "discord-blog/cmd"

func main() {
	cmd.Execute()
}
