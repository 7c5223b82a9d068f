package main

import "github.com/KaramelBytes/socialpulse/cmd"

func main() {
	cmd.Execute()
}
