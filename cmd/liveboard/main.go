package main

import "github.com/vietddude/liveboard/internal/cli"

func main() {
	cli.Execute()
}
