// Command paramnode is a reference node binary: it loads a parameter
// description table, serves TCP requests and UDP broadcasts over
// transport.NetTransport, and runs node.Context's main loop.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paramlink/logging"
	"paramlink/node"
	"paramlink/paramdesc"
	"paramlink/store"
	"paramlink/transport"
)

func main() {
	var (
		nodeID          uint
		tableFile       string
		tcpAddr         string
		udpBroadcast    string
		broadcastPeriod time.Duration
		debugLog        string
	)
	flag.UintVar(&nodeID, "node-id", 1, "this node's id in the parameter description table")
	flag.StringVar(&tableFile, "table", "params.yaml", "parameter description YAML file")
	flag.StringVar(&tcpAddr, "tcp", "0.0.0.0:9877", "TCP listen address for request/response")
	flag.StringVar(&udpBroadcast, "udp-broadcast", "255.255.255.255:9876", "UDP broadcast destination")
	flag.DurationVar(&broadcastPeriod, "broadcast-interval", time.Second, "broadcast emission interval")
	flag.StringVar(&debugLog, "log-debug", "", "debug log file path (empty disables debug logging)")
	flag.Parse()

	if debugLog != "" {
		dl, err := logging.NewDebugLogger(debugLog)
		if err != nil {
			log.Fatalf("open debug log: %v", err)
		}
		logging.SetGlobalDebugLogger(dl)
		defer dl.Close()
	}

	tbl, err := paramdesc.Load(tableFile)
	if err != nil {
		log.Fatalf("load parameter table: %v", err)
	}

	s := store.New(func() uint64 { return uint64(time.Now().UnixMilli()) })
	if err := tbl.Seed(uint32(nodeID), s); err != nil {
		log.Fatalf("seed store: %v", err)
	}

	nt := transport.NewNetTransport()
	if err := nt.ListenTCP(tcpAddr); err != nil {
		log.Fatalf("listen tcp: %v", err)
	}
	if err := nt.SetupUDPBroadcast(udpBroadcast); err != nil {
		log.Fatalf("setup udp broadcast: %v", err)
	}
	defer nt.Close()

	ctx := node.NewContext(uint32(nodeID), s, broadcastPeriod)
	node.SetDefaultBridge(ctx)

	acceptErrs := make(chan error, 1)
	go func() {
		for {
			if err := nt.Accept(); err != nil {
				acceptErrs <- err
				return
			}
			runLoop(ctx, nt, broadcastPeriod)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-acceptErrs:
		log.Fatalf("accept: %v", err)
	case <-sigCh:
		log.Println("shutting down")
	}
}

// runLoop drives one accepted client connection's request/reply cycle
// alongside the broadcast tick, returning once the peer disconnects so the
// caller can Accept() the next one.
func runLoop(ctx *node.Context, t *transport.NetTransport, period time.Duration) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		ctx.Tick(10)
		if ctx.Run(t) {
			return
		}
	}
}
