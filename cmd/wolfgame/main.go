package main

import (
	"github.com/quailholm/wolfgame-go/internal/cli"
)

func main() {
	cli.Execute()
}
