package main

import (
	"fmt"
	"os"
	"time"

	"zombieland-server/internal/infrastructure/storage"
	"zombieland-server/pkg/api"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "header":
		h, err := storage.Header(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid replay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("magic     %s\n", h.Magic[:])
		fmt.Printf("version   %d\n", h.Version)
		fmt.Printf("protocol  %d\n", h.Protocol)
		fmt.Printf("seed      %d\n", h.Seed)
		fmt.Printf("recorded  %s\n", time.Unix(h.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("actions   %d\n", h.ActionCount)
	case "dump":
		session, err := storage.NewReplayService("", api.ProtocolVersion).Load(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid replay: %v\n", err)
			os.Exit(1)
		}
		for _, act := range session.Actions {
			msg, err := api.Decode(act.Datagram)
			if err != nil {
				fmt.Printf("%6d  %-21s  <%v>\n", act.Tick, act.Addr, err)
				continue
			}
			fmt.Printf("%6d  %-21s  %s %+v\n", act.Tick, act.Addr, msg.Type(), msg)
		}
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Replay Info - просмотр журналов .zlrp
Commands:
  header <file>   - заголовок: сид, время записи, число действий
  dump <file>     - все записанные датаграммы по тикам`)
}
