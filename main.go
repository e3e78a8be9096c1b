package main

import "github.com/smoradi/customer-api/cmd"

func main() {
	cmd.Execute()
}
