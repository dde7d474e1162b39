package main

import "sales-history/cmd"

func main() {
	cmd.Execute()
}
