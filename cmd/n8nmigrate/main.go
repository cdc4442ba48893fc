package main

import "github.com/dbsmedya/n8nmigrate/cmd/n8nmigrate/cmd"

func main() {
	cmd.Execute()
}
