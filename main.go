package main

import "github.com/promptdeck/promptdeck/cmd"

func main() {
	cmd.Execute()
}
