// Command keys generates the random secrets the service consumes: the state
// signing secret, the login code seal key and the secretbox master key. All
// are 32 random bytes printed as standard base64, ready for .env.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
)

func main() {
	var (
		genState  = flag.Bool("state", false, "generate STATE_SECRET")
		genSeal   = flag.Bool("seal", false, "generate SOCIAL_SEAL_KEY")
		genMaster = flag.Bool("master", false, "generate SECRETBOX_MASTER_KEY")
		genAll    = flag.Bool("all", false, "generate all three")
	)
	flag.Parse()

	if *genAll {
		*genState, *genSeal, *genMaster = true, true, true
	}
	if !*genState && !*genSeal && !*genMaster {
		fmt.Println("usage:")
		fmt.Println("  keys -state    # state signing secret")
		fmt.Println("  keys -seal     # login code seal key")
		fmt.Println("  keys -master   # secretbox master key")
		fmt.Println("  keys -all")
		return
	}

	if *genState {
		fmt.Printf("STATE_SECRET=%s\n", newKey())
	}
	if *genSeal {
		fmt.Printf("SOCIAL_SEAL_KEY=%s\n", newKey())
	}
	if *genMaster {
		fmt.Printf("SECRETBOX_MASTER_KEY=%s\n", newKey())
	}
}

func newKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}
