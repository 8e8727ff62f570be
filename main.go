package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"quantcoin/chain"
	"quantcoin/config"
	"quantcoin/ledger"
	"quantcoin/vault"
	"quantcoin/wallet"
)

func main() {
	cfgPath := flag.String("config", "quantcoin.yaml", "Node configuration file")
	newWallet := flag.Bool("new-wallet", false, "Generate a wallet into the vault")
	seed := flag.String("seed", "", "Deterministic seed for -new-wallet (empty for random)")
	qrOut := flag.String("qr", "", "Also write a PNG QR code of the new wallet address")
	balanceAddr := flag.String("balance", "", "Print the amount owned by an address")
	watch := flag.Bool("watch", false, "Keep reloading the public store when it changes on disk")
	password := flag.String("password", "", "Vault password")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	seedPeers := make([]ledger.Peer, len(cfg.SeedPeers))
	for i, p := range cfg.SeedPeers {
		seedPeers[i] = ledger.Peer{Host: p.Host, Port: p.Port}
	}
	store := ledger.New(ledger.Config{Decoder: chain.Decode, SeedPeers: seedPeers})

	loaded, err := store.Load(cfg.PublicStorePath())
	if err != nil {
		log.Fatalf("Public store load failed: %v", err)
	}
	if loaded {
		log.Printf("Public store loaded: %d blocks, %d peers, %d public wallets",
			len(store.Blocks()), len(store.AllNodes()), len(store.PublicWallets()))
	}

	if *newWallet {
		if *password == "" {
			log.Fatal("A vault password is required for -new-wallet")
		}
		v := vault.New()
		if _, err := v.Load(cfg.PrivateStorePath(), *password); err != nil {
			log.Fatalf("Vault load failed: %v", err)
		}

		var w wallet.Wallet
		if *seed != "" {
			w, err = wallet.NewFromSeed(*seed)
		} else {
			w, err = wallet.New()
		}
		if err != nil {
			log.Fatalf("Wallet generation failed: %v", err)
		}

		v.StoreWallet(w)
		if err := v.Save(cfg.PrivateStorePath(), *password); err != nil {
			log.Fatalf("Vault save failed: %v", err)
		}
		if err := store.StorePublicWallet(w.PublicKey); err != nil {
			log.Fatalf("Wallet registration failed: %v", err)
		}
		if err := store.Save(cfg.PublicStorePath()); err != nil {
			log.Fatalf("Public store save failed: %v", err)
		}
		fmt.Println("Generated wallet address:", w.Address)

		if *qrOut != "" {
			if err := wallet.SaveAddressQR(w.Address, *qrOut); err != nil {
				log.Fatalf("QR export failed: %v", err)
			}
			fmt.Println("Address QR written to", *qrOut)
		}
	}

	if *balanceAddr != "" {
		fmt.Printf("Amount owned by %s: %s\n", *balanceAddr, store.AmountOwned(*balanceAddr))
	}

	if *watch {
		updates := make(chan struct{}, 1)
		stop := make(chan struct{})
		go func() {
			for range updates {
				log.Printf("Public store reloaded: %d blocks", len(store.Blocks()))
			}
		}()
		if err := store.Watch(cfg.PublicStorePath(), updates, stop); err != nil {
			log.Fatalf("Watcher failed: %v", err)
		}
	}

	if !*newWallet && *balanceAddr == "" && !*watch {
		flag.Usage()
		os.Exit(2)
	}
}
