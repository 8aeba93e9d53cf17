package main

import "logreader-backend/internal/cli"

func main() {
	cli.Execute()
}
