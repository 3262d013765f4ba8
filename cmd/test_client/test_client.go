// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ogier/pflag"

	"github.com/hrissan/dtls12"
	"github.com/hrissan/dtls12/dtlscore"
	"github.com/hrissan/dtls12/dtlsrand"
	"github.com/hrissan/dtls12/stats"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [message]\n\nOptions:\n", os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = printUsage
	serverAddr := pflag.StringP("server", "s", "127.0.0.1:11111", "server address as ip:port")
	pskIdentity := pflag.StringP("identity", "i", "Client_identity", "identity sent in ClientKeyExchange")
	psk := pflag.StringP("key", "k", "1234", "pre-shared key as hex pairs")
	timeoutSec := pflag.Float64P("timeout", "t", 5.0, "handshake timeout (in seconds)")
	verbose := pflag.BoolP("verbose", "v", false, "print every datagram sent and received")
	pflag.Parse()

	message := "hello over dtls"
	if args := pflag.Args(); len(args) != 0 {
		message = args[0]
	}

	var st stats.Stats = stats.NewStatsLog()
	if *verbose {
		st = stats.NewStatsLogVerbose()
	}
	opts := dtlscore.DefaultOptions(dtlsrand.CryptoRand(), st)
	opts.PSKIdentity = *pskIdentity
	opts.PSK = *psk

	timeout := time.Duration(*timeoutSec * float64(time.Second))
	conn, err := dtls12.DialTimeout(opts, "udp", *serverAddr, timeout)
	if err != nil {
		log.Fatalf("dtls12: dial %s failed: %v", *serverAddr, err)
	}
	defer func() {
		_ = conn.Close()
	}()
	fmt.Printf("dtls12: connected to %s\n", *serverAddr)

	if _, err := conn.Write([]byte(message)); err != nil {
		log.Fatalf("dtls12: write failed: %v", err)
	}
	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	if err != nil {
		log.Fatalf("dtls12: read failed: %v", err)
	}
	fmt.Printf("dtls12: received %q\n", buf[:n])
}
