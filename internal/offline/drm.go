package offline

// InitData is one piece of key-system initialization data.
type InitData struct {
	InitData     []byte `json:"initData"`
	InitDataType string `json:"initDataType"`
}

// DrmInfo describes a key system the content was licensed for at download
// time. It is attached to variants as-is.
type DrmInfo struct {
	KeySystem                     string     `json:"keySystem"`
	LicenseServerURI              string     `json:"licenseServerUri"`
	DistinctiveIdentifierRequired bool       `json:"distinctiveIdentifierRequired"`
	PersistentStateRequired       bool       `json:"persistentStateRequired"`
	AudioRobustness               string     `json:"audioRobustness"`
	VideoRobustness               string     `json:"videoRobustness"`
	ServerCertificate             []byte     `json:"serverCertificate,omitempty"`
	InitData                      []InitData `json:"initData"`
	KeyIDs                        []string   `json:"keyIds"`
}
