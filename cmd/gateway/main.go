package main

import "github.com/matchpoint-app/gateway/cmd/gateway/cmd"

func main() {
	cmd.Execute()
}
