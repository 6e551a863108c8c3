package schema

// Custom string types for type safety.
type (
	// CheckType is the name of a check as given on the command line.
	CheckType string

	// CheckCategory groups check types for help output and listing.
	CheckCategory string

	// Status is the normalized status of an entity reported by the controller.
	Status string

	// ObjectKind is the kind of protected object an entity describes.
	ObjectKind string

	// Protocol is a storage access protocol of a share or bucket.
	Protocol string

	// Protection tells whether a share or bucket is assigned to a policy.
	Protection string

	// Compliance is the policy compliancy color reported by the controller.
	Compliance string

	// OutputMode represents the format of the output.
	OutputMode string

	// ManagerMode selects which dashboard figure the manager check inspects.
	ManagerMode string
)

// All check types supported.
const (
	VMCheck               CheckType = "vm"
	VMIDCheck             CheckType = "vmid"
	TargetCheck           CheckType = "target"
	ArchiveCheck          CheckType = "archive"
	PolicyCheck           CheckType = "policy"
	PolicyAdvancedCheck   CheckType = "policy-advanced"
	ManagerCheck          CheckType = "manager"
	JobsCheck             CheckType = "jobs"
	LicenseCheck          CheckType = "license"
	VersionCheck          CheckType = "version"
	SharesCheck           CheckType = "shares"
	BucketsCheck          CheckType = "buckets"
	BackupValidationCheck CheckType = "backup-validation"
	UnassignedCheck       CheckType = "unassigned"
	PortCheck             CheckType = "port"
)

// All check categories.
const (
	ObjectsCategory    CheckCategory = "OBJECTS"
	PoliciesCategory   CheckCategory = "POLICIES"
	GlobalCategory     CheckCategory = "GLOBAL"
	StorageCategory    CheckCategory = "STORAGE"
	ValidationCategory CheckCategory = "VALIDATION"
	NetworkCategory    CheckCategory = "NETWORK"
)

// All normalized entity statuses.
const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
	StatusRunning Status = "RUNNING"
	StatusUnknown Status = "UNKNOWN"
)

// All object kinds.
const (
	VMKind          ObjectKind = "vm"
	ShareKind       ObjectKind = "share"
	BucketKind      ObjectKind = "bucket"
	AppKind         ObjectKind = "app"
	VolumeGroupKind ObjectKind = "volume-group"
	JobKind         ObjectKind = "job"
	BackupKind      ObjectKind = "backup"
	TargetKind      ObjectKind = "target"
	PolicyKind      ObjectKind = "policy"
)

// All storage protocols the classifier knows about.
const (
	NFSProtocol Protocol = "NFS"
	SMBProtocol Protocol = "SMB"
	S3Protocol  Protocol = "S3"
)

// All protection states of shares and buckets.
const (
	Protected   Protection = "PROTECTED"
	Unprotected Protection = "UNPROTECTED"
	Undefined   Protection = "UNDEFINED"
)

// All compliancy colors.
const (
	ComplianceGreen  Compliance = "GREEN"
	ComplianceYellow Compliance = "YELLOW"
	ComplianceRed    Compliance = "RED"
	ComplianceGrey   Compliance = "GREY"
)

// All output modes supported.
const (
	NagiosOut OutputMode = "nagios" // default
	JSONOut   OutputMode = "json"
)

// All manager modes supported.
const (
	ManagerProtected  ManagerMode = "protected"
	ManagerCompliance ManagerMode = "compliance"
)

// Manager critical rules.
const (
	CriticalOnAll = "all" // default
	CriticalOnAny = "any"
)

// Defaults shared by the CLI, config file and MCP server.
const (
	DefaultWarning        = 5
	DefaultCritical       = 10
	DefaultPeriodHours    = 24
	MaxPeriodHours        = 168
	DefaultTimeoutSeconds = 100
	MaxPortTimeoutSeconds = 30
	DefaultAPIPort        = 8443
	DefaultProbePort      = 8443
)

// AllCategories returns the categories in display order.
var AllCategories = []CheckCategory{
	ObjectsCategory,
	PoliciesCategory,
	GlobalCategory,
	StorageCategory,
	ValidationCategory,
	NetworkCategory,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	NagiosOut: {},
	JSONOut:   {},
}

// ValidManagerModes lists all valid manager modes.
var ValidManagerModes = map[ManagerMode]struct{}{
	ManagerProtected:  {},
	ManagerCompliance: {},
}
