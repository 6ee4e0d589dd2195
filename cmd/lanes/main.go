// Command lanes plays an encounter in the terminal, or runs it headless at a
// fixed step and prints a yaml summary.
package main

import (
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jfad2010/ivangohsgreen/prefabs"
)

func main() {
	encounter := flag.String("encounter", prefabs.DefaultEncounter, "encounter file in prefabs/ (.yaml optional)")
	headless := flag.Bool("headless", false, "simulate without a terminal and print a summary")
	seconds := flag.Float64("seconds", 90, "simulated seconds in headless mode")
	dt := flag.Float64("dt", 1.0/60, "fixed step in headless mode")
	autofire := flag.Bool("autofire", true, "fire on a cadence and shield on volleys in headless mode")
	verbose := flag.Bool("v", false, "log combat decisions")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	if !*headless {
		if err := runTerminal(*encounter, logger); err != nil {
			logger.Fatalf("lanes: %v", err)
		}
		return
	}

	opts := Options{Encounter: *encounter, Seconds: *seconds, DT: *dt, AutoFire: *autofire}
	if *verbose {
		opts.Logger = logger
	}
	sum, err := Simulate(opts)
	if err != nil {
		logger.Fatalf("lanes: %v", err)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(sum); err != nil {
		logger.Fatalf("lanes: %v", err)
	}
	_ = enc.Close()
}
