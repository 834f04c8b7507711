package cli

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/Timi16/dehug-go/internal/common"
	"github.com/Timi16/dehug-go/internal/filex"
	"github.com/Timi16/dehug-go/internal/storage"
)

// fetchCommand retrieves a stored document through the gateway fallback
// chain. Without a name it prints the content; with one it is written to
// the downloads directory instead.
func (a *App) fetchCommand(ctx context.Context, refOrURL, saveName string) {
	data, err := a.fetcher.Fetch(ctx, refOrURL, 4<<20)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	if saveName != "" {
		dir, err := filex.EnsureSubDir("downloads")
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err.Error())
			return
		}
		path := filepath.Join(dir, filepath.Base(saveName))
		if err := os.WriteFile(path, data, 0o640); err != nil {
			fmt.Fprintln(a.out, "Error:", err.Error())
			return
		}
		fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), path)
		return
	}

	fmt.Fprintln(a.out, string(data))
	fmt.Fprintf(a.out, "(%d bytes, ref %s)\n", len(data), storage.RefFromURL(refOrURL))
}

// statsCommand prints the on-chain engagement counters of a wallet.
func (a *App) statsCommand(ctx context.Context, wallet string) {
	if err := a.ensureLedger(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	stats, err := a.ledger.GetUserStats(ctx, wallet)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Stats for %s:\n", wallet)
	fmt.Fprintf(a.out, "  Points:    %s\n", stats.TotalPoints)
	fmt.Fprintf(a.out, "  Uploads:   %s\n", stats.TotalUploads)
	fmt.Fprintf(a.out, "  Downloads: %s\n", stats.TotalDownloads)
}

// metaCommand reads the metadata locator of a minted token from the
// ledger, then fetches the document behind it through the gateway chain.
func (a *App) metaCommand(ctx context.Context, tokenIDStr string) {
	tokenID, ok := new(big.Int).SetString(tokenIDStr, 10)
	if !ok {
		fmt.Fprintln(a.out, "Error: token id must be a decimal number")
		return
	}

	if err := a.ensureLedger(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	uri, err := a.ledger.TokenURI(ctx, tokenID)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Metadata URI: %s\n", uri)

	data, err := a.fetcher.Fetch(ctx, uri, 4<<20)
	if err != nil {
		fmt.Fprintf(a.out, "Note: metadata not reachable via public gateways (%s)\n", err.Error())
		return
	}
	fmt.Fprintln(a.out, string(data))
}

// trackCommand records a download of a token, on the ledger and, when a
// tracker endpoint is configured, in the download tracker too. The count
// is the new download total the contract stores.
func (a *App) trackCommand(ctx context.Context, tokenIDStr, countStr, name string) {
	tokenID, ok := new(big.Int).SetString(tokenIDStr, 10)
	if !ok {
		fmt.Fprintln(a.out, "Error: token id must be a decimal number")
		return
	}
	count, ok := new(big.Int).SetString(countStr, 10)
	if !ok {
		fmt.Fprintln(a.out, "Error: download count must be a decimal number")
		return
	}

	if err := a.ensureLedger(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	txHash, err := a.ledger.UpdateDownloadCount(ctx, tokenID, count)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Download recorded on chain: %s\n", txHash)

	if a.tracker == nil || name == "" {
		return
	}
	if err := a.tracker.TrackDownload(ctx, name, common.DownloadSourceSDK); err != nil {
		fmt.Fprintf(a.out, "Note: tracker not updated (%s)\n", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Download recorded in tracker.")
}
