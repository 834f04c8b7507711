package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Timi16/dehug-go/internal/upload"
)

// uploadCommand walks the user through one complete upload: file
// selection, descriptive fields, the staged pipeline run, and the final
// mint report.
func (a *App) uploadCommand(ctx context.Context) {
	req, err := a.collectUploadRequest()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	// Expiring credentials surface now, not after gigabytes are sent.
	if err := a.checkStorageToken(time.Now()); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}

	if err := a.ensureLedger(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}
	req.Uploader = a.ledger.SignerAddress()

	pipeline := upload.New(a.storage, a.ledger, a.log,
		upload.WithProgress(func(p upload.Progress) {
			if p.Message != "" {
				fmt.Fprintf(a.out, "[%3d%%] %s\n", p.Percent, p.Message)
			}
		}))

	outcome, err := pipeline.Run(ctx, *req)
	if err != nil {
		a.reportUploadError(err)
		return
	}

	fmt.Fprintln(a.out, "Upload complete!")
	fmt.Fprintf(a.out, "  Files:    %s\n", outcome.PayloadURL)
	fmt.Fprintf(a.out, "  Metadata: %s\n", outcome.MetadataURL)
	fmt.Fprintf(a.out, "  Tx:       %s\n", outcome.ExplorerURL)
	if upload.IsUnresolvedToken(outcome) {
		fmt.Fprintf(a.out, "  Token ID could not be determined automatically; check the transaction on %s\n", outcome.ExplorerURL)
	} else {
		fmt.Fprintf(a.out, "  Token ID: %s\n", outcome.TokenID)
	}

	a.verifyMetadata(ctx, outcome.MetadataRef)
}

func (a *App) collectUploadRequest() (*upload.Request, error) {
	paths, err := GetLines(a.reader, "Enter file paths, one per line", a.out)
	if err != nil {
		return nil, err
	}

	categoryStr, err := GetSimpleText(a.reader, "Content type (model or dataset)", a.out)
	if err != nil {
		return nil, err
	}
	category, err := upload.ParseCategory(categoryStr)
	if err != nil {
		return nil, err
	}

	// Files are admitted one at a time so a bad selection is named as
	// soon as it appears.
	var files []upload.File
	for _, path := range paths {
		f, err := upload.FileFromPath(path)
		if err != nil {
			return nil, err
		}
		if err := upload.Validate(files, []upload.File{f}, category); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return nil, err
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return nil, err
	}
	extraCategory, err := GetSimpleText(a.reader, "Category (e.g. Natural Language Processing)", a.out)
	if err != nil {
		return nil, err
	}
	license, err := GetSimpleText(a.reader, "License (e.g. mit, apache-2.0)", a.out)
	if err != nil {
		return nil, err
	}
	tagLine, err := GetSimpleText(a.reader, "Tags (comma separated, optional)", a.out)
	if err != nil {
		return nil, err
	}
	author, err := GetSimpleText(a.reader, "Author (optional)", a.out)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, tag := range strings.Split(tagLine, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}

	return &upload.Request{
		Files:       files,
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
		Extra: &upload.MetadataExtra{
			Category: extraCategory,
			License:  license,
			Author:   author,
		},
	}, nil
}

// checkStorageToken refuses to start on expired storage credentials and
// warns when they lapse within the hour, before any bytes move.
func (a *App) checkStorageToken(now time.Time) error {
	if tc, ok := a.storage.(tokenChecker); ok {
		if err := tc.CheckToken(now); err != nil {
			return err
		}
	}
	if te, ok := a.storage.(tokenExpirer); ok {
		exp, err := te.TokenExpiresAt()
		if err == nil && !exp.IsZero() && exp.Before(now.Add(time.Hour)) {
			fmt.Fprintf(a.out, "Warning: storage credentials expire at %s; a long upload may fail partway. Renew them first.\n",
				exp.Format(time.RFC3339))
		}
	}
	return nil
}

func (a *App) reportUploadError(err error) {
	// Validation rejections are the user's to fix; the stage tag is noise.
	if v, ok := upload.AsValidation(err); ok {
		fmt.Fprintln(a.out, "Error:", v.Reason)
		return
	}

	var se *upload.StageError
	if errors.As(err, &se) {
		fmt.Fprintf(a.out, "Upload failed during %s: %s\n", se.Stage, se.Err.Error())
	} else {
		fmt.Fprintln(a.out, "Upload failed:", err.Error())
	}

	var me *upload.MintError
	if errors.As(err, &me) {
		fmt.Fprintln(a.out, "Your files are already stored:")
		fmt.Fprintf(a.out, "  files %s, metadata %s\n", me.PayloadRef, me.MetadataRef)
		fmt.Fprintln(a.out, "Retry the mint without re-uploading once the issue is resolved.")
	}
}

// verifyMetadata is a best-effort readback of the freshly stored metadata
// document through the public gateways. Failures are reported, never
// escalated; the upload already succeeded.
func (a *App) verifyMetadata(ctx context.Context, metadataRef string) {
	if _, err := a.fetcher.Fetch(ctx, metadataRef, 1<<20); err != nil {
		fmt.Fprintf(a.out, "Note: metadata not yet reachable via public gateways (%s); propagation can take a while.\n", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Metadata verified via public gateway.")
}
