package main

import "github.com/pfrederiksen/catalog-courses/internal/cli"

func main() {
	cli.Execute()
}
