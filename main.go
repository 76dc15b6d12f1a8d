package main

import "github.com/maxvaer/goforce/cmd"

func main() {
	cmd.Execute()
}
