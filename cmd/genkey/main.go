package main // Prints a fresh session-signing secret for SESSION_SECRET.

import (
	"fmt"
	"log"

	"github.com/armandsalle/poll/internal/utils"
)

func main() {
	secret, err := utils.NewSessionSecret()
	if err != nil {
		log.Fatalf("generate secret: %v", err)
	}
	fmt.Println(secret)
}
