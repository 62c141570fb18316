package main

import "github.com/andrewpaige1/studyflash-api/cmd"

func main() {
	cmd.Execute()
}
