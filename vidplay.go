// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"runtime/pprof"
	"time"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/mpvplayer"
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/proxy"
	"github.com/spezifisch/vidplay/remote"
	"github.com/spezifisch/vidplay/session"
	"github.com/spf13/viper"
)

var osExit = os.Exit  // A variable to allow mocking os.Exit in tests
var headlessMode bool // This can be set to true during tests
var testMode bool     // This can be set to true during tests, too

const DEVELOPMENT = "development"

// checkProxyURL is what --check-proxy asks the proxy service to issue.
const checkProxyURL = "https://example.com/test.m3u8"

// Name is the client name shown in the status bar
var Name string = "vidplay"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

func setConfigDefaults() {
	viper.SetDefault("proxy.timeout", proxy.DefaultTimeout)
	viper.SetDefault("proxy.cache-size", 0)
	viper.SetDefault("engine.enabled", true)
	viper.SetDefault("engine.max-manifest-bytes", 0)
	viper.SetDefault("player.volume", session.DefaultVolume)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("ui.thumbnails", true)
}

// readConfig loads the config file. Without --config a missing file is fine,
// every key has a default.
func readConfig(configFile *string) error {
	setConfigDefaults()

	explicit := configFile != nil && *configFile != ""
	if explicit {
		// use custom config file
		viper.SetConfigFile(*configFile)
	} else {
		// lookup default dirs
		viper.SetConfigName("vidplay")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/vidplay")
		viper.AddConfigPath(".")
	}

	// read it
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("Config file error: %s\n", err)
	}

	// validate
	if v := viper.GetFloat64("player.volume"); v < 0 || v > 1 {
		return fmt.Errorf("Config property player.volume must be in [0, 1], got %v\n", v)
	}
	return nil
}

func newResolver(logger logger.LoggerInterface) *proxy.Resolver {
	var issuer proxy.Issuer
	if endpoint := viper.GetString("proxy.endpoint"); endpoint != "" {
		issuer = proxy.NewHTTPIssuer(endpoint, nil)
	}
	return proxy.NewResolver(issuer, logger, proxy.Options{
		Timeout:   viper.GetDuration("proxy.timeout"),
		CacheSize: viper.GetInt("proxy.cache-size"),
	})
}

// checkProxy issues one URL for a test address and reports the result.
func checkProxy() error {
	endpoint := viper.GetString("proxy.endpoint")
	if endpoint == "" {
		return errors.New("proxy.endpoint is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("proxy.timeout"))
	defer cancel()

	proxied, err := proxy.NewHTTPIssuer(endpoint, nil).Issue(ctx, checkProxyURL)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", checkProxyURL, proxied)
	return nil
}

// return codes:
// 0 - OK
// 1 - generic errors
// 2 - main config errors
// 2 - key binding config errors
// 3 - playlist config errors
func main() {
	// parse flags and config
	help := flag.Bool("help", false, "Print usage")
	enableMpris := flag.Bool("mpris", false, "Enable MPRIS2")
	doCheckProxy := flag.Bool("check-proxy", false, "ask the proxy service for a test URL and exit")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	configFile := flag.String("config", "", "use config `file`")
	version := flag.Bool("version", false, "print the vidplay version and exit")

	flag.Parse()
	if *help {
		fmt.Printf("USAGE: %s <args>\n", os.Args[0])
		flag.Usage()
		osExit(0)
	}
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}
	if *version {
		fmt.Printf("vidplay %s", Version)
		osExit(0)
	}

	// cpuprofile code straight from https://pkg.go.dev/runtime/pprof
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close() // error handling omitted for example
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := readConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration from file '%s': %v\n", *configFile, err)
		osExit(2)
		return
	}

	videos, err := loadPlaylist()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid playlist configuration: %v\n", err)
		osExit(3)
		return
	}

	keys, err := loadKeyMap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid key bindings in ui.keys: %v\n", err)
		osExit(2)
		return
	}

	if *doCheckProxy {
		if err := checkProxy(); err != nil {
			fmt.Fprintf(os.Stderr, "Proxy check failed: %v\n", err)
			osExit(1)
			return
		}
		osExit(0)
		return
	}

	logger, logFile, err := logger.InitWithConfig(logger.Config{
		File:  viper.GetString("log.file"),
		Level: viper.GetString("log.level"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open log file: %v\n", err)
	}
	defer logFile.Close()

	if testMode {
		fmt.Println("Running in test mode for testing.")
		osExit(0)
		return
	}

	// init mpv engine
	player, err := mpvplayer.NewPlayer(logger, mpvplayer.Options{
		HWDec:  viper.GetString("player.hwdec"),
		VO:     viper.GetString("player.vo"),
		Volume: viper.GetFloat64("player.volume"),
	})
	if err != nil {
		fmt.Println("Unable to initialize mpv. Is mpv installed?")
		osExit(1)
		return
	}

	controller := session.NewController(session.Options{
		Surface:  player,
		Resolver: newResolver(logger),
		Engines: session.HLSProvider{
			Enabled:          viper.GetBool("engine.enabled"),
			MaxManifestBytes: viper.GetInt64("engine.max-manifest-bytes"),
			Logger:           logger,
		},
		Logger: logger,
		Volume: viper.GetFloat64("player.volume"),
	})

	var mprisPlayer *remote.MprisPlayer
	// init mpris2 player control (linux only but fails gracefully on other systems)
	if *enableMpris {
		mprisPlayer, err = remote.RegisterMprisPlayer(controller, logger)
		if err != nil {
			fmt.Printf("Unable to register MPRIS with DBUS: %s\n", err)
			fmt.Println("Try running without MPRIS")
			osExit(1)
			return
		}
		defer mprisPlayer.Close()

		controller.OnEntryChange(func(entry playlist.Entry) {
			mprisPlayer.OnEntryChange(&entry)
		})
	}

	if headlessMode {
		fmt.Println("Running in headless mode for testing.")
		controller.Close()
		player.Quit()
		osExit(0)
		return
	}

	ui := InitGui(videos, controller, player, logger, mprisPlayer, keys, viper.GetBool("ui.thumbnails"))

	// run main loop
	start := time.Now()
	if err := ui.Run(); err != nil {
		panic(err)
	}
	logger.Printf("session ended after %s", time.Since(start).Round(time.Second))
}
