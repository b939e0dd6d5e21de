package main

import "github.com/frahmantamala/office-calendar/cmd"

func main() {
	cmd.Execute()
}
