package main

import "github.com/karthik-anand/webaudit/cmd"

func main() {
	cmd.Execute()
}
