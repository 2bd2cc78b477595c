package main

import (
	"log"

	"lms_backend/internals/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
