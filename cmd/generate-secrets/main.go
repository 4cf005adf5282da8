package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tourplatform/tour-booking-backend/internal/utils"
)

func main() {
	length := flag.Int("bytes", 32, "number of random bytes in the secret")
	flag.Parse()

	secret, err := utils.GenerateSecret(*length)
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("Keep this secret safe and never commit it to version control.")
}
