// Command rcomsend sends a single file across a rcomlink session acting
// as the transmitter.
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/rcomlink/rcomlink/link"
	"github.com/rcomlink/rcomlink/rcom"
	"github.com/rcomlink/rcomlink/serial"
)

func main() {
	var (
		device  = flag.StringP("port", "p", "/dev/ttyS0", "serial device path")
		baud    = flag.StringP("baud", "b", "9600", "line speed")
		timeout = flag.IntP("timeout", "t", 3, "per-retransmission timeout, seconds")
		retries = flag.IntP("retries", "r", 3, "max retransmissions")
		file    = flag.StringP("file", "f", "", "file to send")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("missing required -file")
	}
	baudRate, err := serial.ParseBaud(*baud)
	if err != nil {
		log.Fatal("invalid baud rate", "err", err)
	}

	cfg := link.Config{
		Role:               link.RoleTransmitter,
		Device:             *device,
		LineSpeed:          baudRate,
		Timeout:            time.Duration(*timeout) * time.Second,
		MaxRetransmissions: *retries,
	}

	session, err := link.Open(cfg)
	if err != nil {
		log.Fatal("open session", "err", err)
	}

	if err := rcom.SendFile(session, *file); err != nil {
		_ = session.Close(true)
		log.Fatal("send file", "err", err)
	}

	if err := session.Close(true); err != nil {
		log.Fatal("close session", "err", err)
	}
	os.Exit(0)
}
