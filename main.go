package main

import (
	"log"
	"net"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"oledscreen/pkg/device/ssd1306"
	"oledscreen/pkg/device/virtual"
	"oledscreen/pkg/proto"
	"oledscreen/pkg/screen"
)

var bus = flag.String("bus", "1", "i2c bus name, number or device path")
var banner = flag.String("banner", "PeachCloud", "first line of the splash")
var dryRun = flag.Bool("dry-run", false, "draw on a virtual panel")

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()

	var panel proto.Panel
	if *dryRun {
		panel = virtual.Mock(logger)
	} else {
		panel = ssd1306.New(proto.NewBus(*bus), logger)
	}

	res, err := screen.Open(panel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = res.Close()
	}()

	d := screen.NewDispatcher(res, logger, screen.WithFaultPolicy(screen.FaultReport))

	ip, err := localIP()
	if err != nil {
		log.Fatal(err)
	}

	lines := []screen.WriteRequest{
		{X: 0, Y: 0, Text: *banner, Font: "6x8"},
		{X: 0, Y: 16, Text: "IP: " + ip, Font: "6x8"},
	}
	for _, l := range lines {
		if err := d.Write(l); err != nil {
			log.Fatal(err)
		}
	}

	if err := d.Flush(); err != nil {
		log.Fatal(err)
	}
}

func localIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", errors.Wrap(err, "list interface addrs")
	}

	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok && !n.IP.IsLoopback() && n.IP.To4() != nil {
			return n.IP.String(), nil
		}
	}
	return "", errors.New("no non-loopback IPv4 address")
}
