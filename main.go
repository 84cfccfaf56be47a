package main

import "jonx/cli"

func main() {
	cli.Execute()
}
