// Command enc seals a value with the secretbox master key so it can live in
// config.yaml as a *_enc field. With -d it opens a sealed value instead.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	sec "github.com/dropDatabas3/socialgate/internal/security/secretbox"
)

func main() {
	decrypt := flag.Bool("d", false, "decrypt instead of encrypt")
	flag.Parse()

	_ = godotenv.Load(".env")

	if flag.NArg() != 1 {
		log.Fatal("usage: enc [-d] <value>")
	}
	value := flag.Arg(0)

	if *decrypt {
		plain, err := sec.Decrypt(value)
		if err != nil {
			log.Fatalf("decrypt: %v", err)
		}
		fmt.Println(plain)
		return
	}

	enc, err := sec.Encrypt(value)
	if err != nil {
		log.Fatalf("encrypt: %v", err)
	}
	fmt.Println(enc)
}
