package upload

import (
	"strings"
	"time"
)

const (
	// DefaultImageRef is the fixed placeholder artwork every minted record
	// points at. Engagement-driven artwork upgrades happen off-pipeline.
	DefaultImageRef = "bafkreicspnlkp5r5sx4spzlvys6lbj4oiauwl4n22o7hncajtpcvuw6yfe"

	// DefaultImageURL is the gateway form of DefaultImageRef.
	DefaultImageURL = "https://aqua-charming-crow-34.mypinata.cloud/ipfs/" + DefaultImageRef

	externalURLBase = "https://dehug.vercel.app/"

	// BaselineQualityTier is the tier every record starts at.
	BaselineQualityTier = "BASIC"
)

// Attribute is a single trait in the metadata document. Consumers index
// attributes by trait name, so each trait appears at most once.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Properties is the free-form provenance block of the metadata document.
type Properties struct {
	ContentType     string   `json:"contentType"`
	PayloadRef      string   `json:"ipfsHash"`
	DownloadCount   int      `json:"downloadCount"`
	UploadTimestamp int64    `json:"uploadTimestamp"`
	Tags            []string `json:"tags"`
	Uploader        string   `json:"uploader"`
	Category        string   `json:"category,omitempty"`
	License         string   `json:"license,omitempty"`
	Author          string   `json:"author,omitempty"`
	Homepage        string   `json:"homepage,omitempty"`
	Repository      string   `json:"repository,omitempty"`
}

// NFTMetadata is the descriptive record stored next to the payload. It is
// built once per upload, immutable, and serialized as-is to storage.
type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Properties  Properties  `json:"properties"`
}

// MetadataExtra carries the optional form fields that end up in both the
// attribute list and the properties block.
type MetadataExtra struct {
	Category   string
	License    string
	Author     string
	Homepage   string
	Repository string
}

// BuildMetadata constructs the metadata document from form data and
// pipeline-derived values. Engagement counters and the quality tier start
// at their baseline; a separate sync process mutates them later, never this
// pipeline. Pure: the upload instant is a parameter.
func BuildMetadata(title, description string, category Category, payloadRef, uploader string, tags []string, now time.Time, extra *MetadataExtra) *NFTMetadata {
	attrs := []Attribute{
		{TraitType: "Content Type", Value: category.String()},
		{TraitType: "Points Balance", Value: 0},
		{TraitType: "Downloads", Value: 0},
		{TraitType: "Quality Tier", Value: BaselineQualityTier},
		{TraitType: "Upload Date", Value: now.UTC().Format("2006-01-02")},
		{TraitType: "Tags", Value: strings.Join(tags, ", ")},
		{TraitType: "Uploader", Value: truncateAddress(uploader)},
	}

	props := Properties{
		ContentType:     category.String(),
		PayloadRef:      payloadRef,
		UploadTimestamp: now.UnixMilli(),
		Tags:            tags,
		Uploader:        uploader,
	}

	if extra != nil {
		if extra.Category != "" {
			attrs = append(attrs, Attribute{TraitType: "Category", Value: extra.Category})
		}
		if extra.License != "" {
			attrs = append(attrs, Attribute{TraitType: "License", Value: extra.License})
		}
		if extra.Author != "" {
			attrs = append(attrs, Attribute{TraitType: "Author", Value: extra.Author})
		}
		props.Category = extra.Category
		props.License = extra.License
		props.Author = extra.Author
		props.Homepage = extra.Homepage
		props.Repository = extra.Repository
	}

	return &NFTMetadata{
		Name:        title,
		Description: description,
		Image:       DefaultImageURL,
		ExternalURL: externalURLBase + payloadRef,
		Attributes:  attrs,
		Properties:  props,
	}
}

func truncateAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}
