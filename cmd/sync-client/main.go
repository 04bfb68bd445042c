package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"tambohub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	raw := flag.Bool("raw", false, "print raw event lines instead of the summary")
	flag.Parse()

	for {
		if err := run(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev sync.MappingEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome banner or anything non-event prints as-is
			fmt.Println(string(line))
			continue
		}

		switch ev.Type {
		case "mapping.create":
			fmt.Printf("%s  + fid=%d  %s\n", ev.At.Format(time.TimeOnly), ev.FID, ev.MappingName)
		case "mapping.delete":
			fmt.Printf("%s  - fid=%d  %s\n", ev.At.Format(time.TimeOnly), ev.FID, ev.MappingName)
		default:
			fmt.Println(string(line))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
