// Command cadmon is a host-side serial monitor for a board running
// cadence. It opens the target's UART as a raw terminal, renders the
// leveled log stream trust.Logger writes there, and forwards typed
// commands straight through to the device.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tty "github.com/mattn/go-tty"
)

var (
	devPath = flag.String("d", "/dev/ttyACM0", "serial device path to the board's UART")
	verbose = flag.Bool("v", false, "echo unrecognized lines verbatim instead of dropping them")
)

func main() {
	flag.Parse()

	dev, err := tty.OpenDevice(*devPath)
	if err != nil {
		log.Fatalf("cadmon: unable to open %s: %v", *devPath, err)
	}
	defer dev.Close()
	_ = dev.MustRaw()

	done := make(chan struct{})
	go readLoop(dev, done)
	writeLoop(dev)
	<-done
}

// readLoop renders every line the device writes, translating the
// trust.Logger level prefixes into a one-line console format; a line
// with none of the recognized prefixes is either dropped or echoed
// verbatim, depending on -v.
func readLoop(dev *tty.TTY, done chan<- struct{}) {
	defer close(done)
	r := bufio.NewScanner(dev.Input())
	for r.Scan() {
		line := r.Text()
		switch {
		case strings.HasPrefix(line, "FATAL: "):
			fmt.Printf("\033[31mFATAL\033[0m %s\n", strings.TrimPrefix(line, "FATAL: "))
		case strings.HasPrefix(line, "ERROR: "):
			fmt.Printf("\033[31merror\033[0m %s\n", strings.TrimPrefix(line, "ERROR: "))
		case strings.HasPrefix(line, " WARN: "):
			fmt.Printf("\033[33mwarn \033[0m %s\n", strings.TrimPrefix(line, " WARN: "))
		case strings.HasPrefix(line, " INFO: "):
			fmt.Printf("info  %s\n", strings.TrimPrefix(line, " INFO: "))
		case strings.HasPrefix(line, "DEBUG: "):
			fmt.Printf("\033[2mdebug %s\033[0m\n", strings.TrimPrefix(line, "DEBUG: "))
		case strings.HasPrefix(line, "STATS["):
			fmt.Printf("\033[36m%s\033[0m\n", line)
		case *verbose:
			fmt.Println(line)
		}
	}
}

// writeLoop relays whatever the operator types to stdin straight to
// the device, one newline-terminated line at a time. Interpreting those
// lines is up to the application running on the board; cmd/cadence-avr
// reads nothing from its UART.
func writeLoop(dev *tty.TTY) {
	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		line := s.Text()
		if _, err := dev.Output().WriteString(line + "\n"); err != nil {
			log.Fatalf("cadmon: write to device failed: %v", err)
		}
	}
}
