package main

import (
	"go-cfimages/internal/cli"
)

func main() {
	cli.Execute()
}
