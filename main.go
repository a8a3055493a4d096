package main

import (
	"log"

	"github.com/solgrid/fieldmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
