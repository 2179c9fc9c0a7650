package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wirekit/wirekit/pkg/api"
	"github.com/wirekit/wirekit/pkg/cipher"
	"github.com/wirekit/wirekit/pkg/network"
	"github.com/wirekit/wirekit/pkg/packet"
	"github.com/wirekit/wirekit/pkg/protocol"
)

// Message IDs of the built-in echo protocol.
const (
	msgPing byte = 1
	msgPong byte = 2
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		listenPort int
		apiPort    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a relay node",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.ListenPort = listenPort
			}
			if cmd.Flags().Changed("api-port") {
				cfg.APIPort = apiPort
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().IntVarP(&listenPort, "port", "p", 9000, "TCP port to listen on")
	cmd.Flags().IntVar(&apiPort, "api-port", 8080, "HTTP status API port")

	return cmd
}

// node tracks the live transports and the dispatch router so the
// status API has something to report on.
type node struct {
	router *protocol.Router

	mu    sync.Mutex
	conns map[*network.StreamTransport]struct{}
}

func newNode(router *protocol.Router) *node {
	return &node{router: router, conns: make(map[*network.StreamTransport]struct{})}
}

func (n *node) track(t *network.StreamTransport) {
	n.mu.Lock()
	n.conns[t] = struct{}{}
	n.mu.Unlock()
	t.OnClosed(func() {
		n.mu.Lock()
		delete(n.conns, t)
		n.mu.Unlock()
	})
}

func (n *node) Connections() []api.ConnectionInfo {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]api.ConnectionInfo, 0, len(n.conns))
	for t := range n.conns {
		out = append(out, api.ConnectionInfo{
			RemoteAddr: t.RemoteAddr().String(),
			Alive:      t.Alive(),
			Enabled:    t.Enabled(),
		})
	}
	return out
}

func (n *node) ActiveProtocol() string {
	return n.router.Active().Name()
}

func runServe(cfg Config) error {
	fmt.Print(banner)
	log.Printf("wirekit %s starting", version)

	var transform packet.Transform
	if cfg.Passphrase != "" {
		key, iv := cipher.DeriveKeyIV(cfg.Passphrase)
		aes, err := cipher.NewAESCTR(key, iv)
		if err != nil {
			return err
		}
		transform = aes
		log.Print("✓ Frame cipher derived from passphrase")
	}

	router := protocol.NewRouter(echoTable(cfg.ProtocolName))
	n := newNode(router)

	listener := network.NewListener()
	listener.OnConnection(func(t *network.StreamTransport) {
		log.Printf("New connection from %s", t.RemoteAddr())
		n.track(t)
		t.SetTransform(transform)

		var factory network.PacketFactory = network.BufferFactory{}
		if transform != nil {
			factory = network.SealedFactory{Transform: transform}
		}

		d := network.NewDispatcher(t, factory)
		d.SetRouter(router)
		d.OnReceive(echoHandler(t, transform != nil))
		if err := t.Start(); err != nil {
			log.Printf("transport start: %v", err)
			t.CloseConnection()
			return
		}
		if err := d.StartConsume(); err != nil {
			log.Printf("dispatcher start: %v", err)
			t.CloseConnection()
		}
	})

	if err := listener.Start(cfg.ListenPort); err != nil {
		return err
	}
	defer listener.Stop()

	apiServer := api.NewServer(n, &api.Config{
		Port:         cfg.APIPort,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	log.Printf("Status API on :%d", cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Print("Shutting down")
		listener.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// echoTable builds the default protocol table. Ping is bound so it
// does not fall through to the unhandled log; the actual reply rides
// on the per-connection receive handler, which owns the transport.
func echoTable(name string) *protocol.Table {
	table := protocol.NewTable(name)
	table.AddTrigger(msgPing, func(p packet.Packet) {})
	table.AddDefault(func(p packet.Packet) {
		log.Printf("Unhandled message ID 0x%02x", p.ID())
	})
	return table
}

// echoHandler answers every ping with a pong carrying the same
// payload.
func echoHandler(t *network.StreamTransport, sealed bool) network.ReceiveHandler {
	return func(p packet.Packet, _ net.Addr) {
		if p.ID() != msgPing {
			return
		}

		var msg string
		var err error
		switch in := p.(type) {
		case *packet.Sealed:
			if in.IsCorrupted() {
				log.Printf("dropping corrupted ping from %s", t.RemoteAddr())
				return
			}
			msg, err = in.GetString()
		case *packet.Buffer:
			msg, err = in.GetString()
		default:
			return
		}
		if err != nil {
			log.Printf("malformed ping: %v", err)
			return
		}

		var out packet.Packet
		if sealed {
			reply := packet.NewSealed()
			reply.SetID(msgPong)
			if err := reply.PutString(msg); err != nil {
				log.Printf("pong build: %v", err)
				return
			}
			out = reply
		} else {
			reply := packet.New()
			reply.SetID(msgPong)
			if err := reply.PutString(msg); err != nil {
				log.Printf("pong build: %v", err)
				return
			}
			out = reply
		}
		t.SendPacket(out)
	}
}
