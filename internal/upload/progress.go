package upload

// Stage is one discrete, strictly sequential unit of the pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageCompressing
	StageUploadingPayload
	StageBuildingMetadata
	StageUploadingMetadata
	StageMinting
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageCompressing:
		return "compressing"
	case StageUploadingPayload:
		return "uploading-files"
	case StageBuildingMetadata:
		return "creating-metadata"
	case StageUploadingMetadata:
		return "uploading-metadata"
	case StageMinting:
		return "minting-nft"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Percent maps a stage onto the determinate progress scale callers render.
func (s Stage) Percent() int {
	switch s {
	case StageCompressing:
		return 10
	case StageUploadingPayload:
		return 30
	case StageBuildingMetadata:
		return 50
	case StageUploadingMetadata:
		return 70
	case StageMinting:
		return 90
	case StageComplete:
		return 100
	default:
		return 0
	}
}

// Progress is a side-channel snapshot of the pipeline state. Percent never
// decreases within one run and ends at 100 on success.
type Progress struct {
	Stage   Stage
	Percent int
	Message string
}

// ProgressFunc receives progress updates as the run advances. It is called
// synchronously from the pipeline goroutine; keep it cheap.
type ProgressFunc func(Progress)
