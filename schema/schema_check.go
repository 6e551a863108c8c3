package schema

import (
	"slices"
	"strings"
)

// CheckInfo describes how a check type is invoked and evaluated.
type CheckInfo struct {
	Type        CheckType
	Category    CheckCategory
	Description string
	NameHint    string // meaning of -n, empty when the check takes none
	NeedsName   bool
	NeedsToken  bool
	Thresholded bool
	Inverted    bool
	Windowed    bool
	Warning     float64 // default warning threshold
	Critical    float64 // default critical threshold
}

// checkInfos is the closed set of check types.
var checkInfos = map[CheckType]CheckInfo{
	VMCheck: {
		Category: ObjectsCategory, Description: "Last backup status of a VM",
		NameHint: "VM name", NeedsName: true, NeedsToken: true,
	},
	VMIDCheck: {
		Category: ObjectsCategory, Description: "Last backup status of a VM by UUID",
		NameHint: "VM UUID", NeedsName: true, NeedsToken: true,
	},
	TargetCheck: {
		Category: ObjectsCategory, Description: "Health of a backup target",
		NameHint: "target name", NeedsName: true, NeedsToken: true,
	},
	ArchiveCheck: {
		Category: ObjectsCategory, Description: "Archive status of the last backup of a VM",
		NameHint: "VM name", NeedsName: true, NeedsToken: true,
	},
	PolicyCheck: {
		Category: PoliciesCategory, Description: "Compliance of a policy",
		NameHint: "policy name", NeedsName: true, NeedsToken: true,
	},
	PolicyAdvancedCheck: {
		Category: PoliciesCategory, Description: "Per-object compliance breakdown of a policy",
		NameHint: "policy name", NeedsName: true, NeedsToken: true, Thresholded: true,
	},
	ManagerCheck: {
		Category: GlobalCategory, Description: "Manager dashboard, protected or compliance VMs",
		NameHint: "protected | compliance", NeedsName: true, NeedsToken: true, Thresholded: true,
	},
	JobsCheck: {
		Category: GlobalCategory, Description: "Failed jobs over the period",
		NeedsToken: true, Thresholded: true, Windowed: true,
	},
	LicenseCheck: {
		Category: GlobalCategory, Description: "Days left before license expiration",
		NeedsToken: true, Thresholded: true, Inverted: true, Warning: 30, Critical: 7,
	},
	VersionCheck: {
		Category: GlobalCategory, Description: "Controller name and software version",
		NeedsToken: true,
	},
	SharesCheck: {
		Category: StorageCategory, Description: "Compliance of NFS/SMB shares",
		NeedsToken: true, Thresholded: true,
	},
	BucketsCheck: {
		Category: StorageCategory, Description: "Compliance of S3 buckets",
		NeedsToken: true, Thresholded: true,
	},
	BackupValidationCheck: {
		Category: ValidationCategory, Description: "Failed backup validation jobs over the period",
		NeedsToken: true, Thresholded: true, Windowed: true,
	},
	UnassignedCheck: {
		Category: ValidationCategory, Description: "Objects not assigned to any policy",
		NeedsToken: true, Thresholded: true,
	},
	PortCheck: {
		Category: NetworkCategory, Description: "TCP connectivity to a controller port",
		NameHint: "port (default 8443)",
	},
}

func init() {
	for t, info := range checkInfos {
		info.Type = t
		if info.Thresholded && !info.Inverted && info.Warning == 0 && info.Critical == 0 {
			info.Warning = DefaultWarning
			info.Critical = DefaultCritical
		}
		checkInfos[t] = info
	}
}

// LookupCheck returns the metadata of a check type.
func LookupCheck(t CheckType) (CheckInfo, bool) {
	info, ok := checkInfos[t]
	return info, ok
}

// ParseCheckType validates a check type name (case-insensitive).
func ParseCheckType(s string) (CheckType, error) {
	t := CheckType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := checkInfos[t]; !ok {
		return "", &ConfigError{Field: "type", Msg: "invalid check type '" + s + "' (valid: " + strings.Join(checkNames(), ", ") + ")"}
	}
	return t, nil
}

// AllChecks returns every check, ordered by category then name.
func AllChecks() []CheckInfo {
	infos := make([]CheckInfo, 0, len(checkInfos))
	for _, info := range checkInfos {
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b CheckInfo) int {
		ca, cb := slices.Index(AllCategories, a.Category), slices.Index(AllCategories, b.Category)
		if ca != cb {
			return ca - cb
		}
		return strings.Compare(string(a.Type), string(b.Type))
	})
	return infos
}

func checkNames() []string {
	names := make([]string, 0, len(checkInfos))
	for _, info := range AllChecks() {
		names = append(names, string(info.Type))
	}
	return names
}
