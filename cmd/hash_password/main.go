package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pageza/recipebox/backend/internal/service"
)

// Prints a bcrypt hash suitable for AUTH_PASSWORD_HASH. The password is read from
// the first argument or, when absent, from the first line of stdin.
func main() {
	flag.Parse()

	password := flag.Arg(0)
	if password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("usage: hash_password <password> (or pipe it on stdin)")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(hash)
}
