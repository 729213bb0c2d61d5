package main

import "github.com/mmynk/billscan/internal/cli"

func main() {
	cli.Execute()
}
