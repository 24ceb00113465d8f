// Command resp-cli is a three-command test client for resp-kv: GET, SET,
// DEL against a running server, for manual exercising and smoke testing.
//
// Trimmed to the three commands this server supports.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akashmaji946/resp-kv/internal/client"
)

func main() {
	address := flag.String("address", "127.0.0.1:6379", "server address")
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	c, err := client.Dial(*address)
	if err != nil {
		fmt.Fprintln(os.Stderr, "resp-cli: dial:", err)
		os.Exit(1)
	}
	defer c.Close()

	switch args[0] {
	case "get":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		v, ok, err := c.Get(args[1])
		if err != nil {
			fail(err)
		}
		if !ok {
			fmt.Println("(nil)")
			return
		}
		fmt.Println(string(v))

	case "set":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		if err := c.Set(args[1], []byte(args[2])); err != nil {
			fail(err)
		}
		fmt.Println("OK")

	case "del":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		if err := c.Del(args[1]); err != nil {
			fail(err)
		}
		fmt.Println("(integer) 1")

	default:
		usage()
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "resp-cli:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: resp-cli [-address host:port] get <key> | set <key> <value> | del <key>")
}
