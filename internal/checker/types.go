package checker

// The JSON field names below are the de facto schema consumed by the
// existing front end; do not rename them.

// SSLCheck reports certificate validity for the target host.
type SSLCheck struct {
	Valid         bool   `json:"valid"`
	DaysRemaining int    `json:"daysRemaining"`
	Issuer        string `json:"issuer"`
	DomainMatch   bool   `json:"domainMatch"`
	ValidFrom     string `json:"validFrom,omitempty"`
	ValidTo       string `json:"validTo,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Unknown reports whether the check failed to produce data.
func (c SSLCheck) Unknown() bool { return c.Error != "" }

// WhoisCheck reports registration data for the registered domain.
type WhoisCheck struct {
	CreationDate      string `json:"creationDate"`
	DomainAge         *int   `json:"domainAge"` // days since registration; nil when unknown
	Registrar         string `json:"registrar"`
	RegistrantCountry string `json:"registrantCountry"`
	Error             string `json:"error,omitempty"`
}

func (c WhoisCheck) Unknown() bool { return c.Error != "" || c.DomainAge == nil }

// DNSCheck reports resolution data for the target host.
type DNSCheck struct {
	HasARecord  bool     `json:"hasARecord"`
	IPAddresses []string `json:"ipAddresses"`
	HasMXRecord bool     `json:"hasMXRecord"`
	MXRecords   []string `json:"mxRecords"`
	Nameservers []string `json:"nameservers"`
	IsCDNProxy  bool     `json:"isCloudflareProxy"`
	Error       string   `json:"error,omitempty"`
}

func (c DNSCheck) Unknown() bool { return c.Error != "" }

// HeadersCheck reports HTTP security headers and the redirect chain.
type HeadersCheck struct {
	HasHSTS                bool     `json:"hasHSTS"`
	HasCSP                 bool     `json:"hasCSP"`
	HasXFrameOptions       bool     `json:"hasXFrameOptions"`
	HasXContentTypeOptions bool     `json:"hasXContentTypeOptions"`
	HasReferrerPolicy      bool     `json:"hasReferrerPolicy"`
	StatusCode             int      `json:"statusCode"`
	FinalURL               string   `json:"finalUrl"`
	RedirectChain          []string `json:"redirectChain"`
	RedirectCount          int      `json:"redirectCount"`
	Server                 string   `json:"server,omitempty"`
	Error                  string   `json:"error,omitempty"`
}

func (c HeadersCheck) Unknown() bool { return c.Error != "" }

// VirusTotalCheck reports engine verdict counts from the malware aggregator.
type VirusTotalCheck struct {
	MaliciousCount  int    `json:"maliciousCount"`
	SuspiciousCount int    `json:"suspiciousCount"`
	HarmlessCount   int    `json:"harmlessCount"`
	TotalEngines    int    `json:"totalEngines"`
	Detected        bool   `json:"detected"`
	Permalink       string `json:"permalink,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (c VirusTotalCheck) Unknown() bool { return c.Error != "" }

// PhishTankCheck reports the phishing-report database verdict.
type PhishTankCheck struct {
	InDatabase     bool   `json:"inDatabase"`
	IsPhish        bool   `json:"isPhish"`
	Verified       bool   `json:"verified"`
	PhishID        string `json:"phishId,omitempty"`
	PhishDetailURL string `json:"phishDetailUrl,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (c PhishTankCheck) Unknown() bool { return c.Error != "" }

// SafeBrowsingCheck reports the blocklist verdict.
type SafeBrowsingCheck struct {
	IsFlagged  bool   `json:"isFlagged"`
	ThreatType string `json:"threatType"`
	Error      string `json:"error,omitempty"`
}

func (c SafeBrowsingCheck) Unknown() bool { return c.Error != "" }

// URLScanCheck reports the passive-scan service verdict.
type URLScanCheck struct {
	Malicious  bool     `json:"malicious"`
	Score      int      `json:"score"`
	Categories []string `json:"categories,omitempty"`
	IP         string   `json:"ip,omitempty"`
	Country    string   `json:"country,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (c URLScanCheck) Unknown() bool { return c.Error != "" }

// GeoInfo is informational only and never scored.
type GeoInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	ISP         string `json:"isp"`
	Org         string `json:"org"`
	AS          string `json:"as"`
	Error       string `json:"error,omitempty"`
}

// Results bundles every checker payload for one analysis.
type Results struct {
	SSL          SSLCheck          `json:"ssl"`
	Whois        WhoisCheck        `json:"whois"`
	DNS          DNSCheck          `json:"dns"`
	Headers      HeadersCheck      `json:"headers"`
	VirusTotal   VirusTotalCheck   `json:"virustotal"`
	PhishTank    PhishTankCheck    `json:"phishtank"`
	SafeBrowsing SafeBrowsingCheck `json:"safebrowsing"`
	URLScan      URLScanCheck      `json:"urlscan"`
	Geo          *GeoInfo          `json:"geo"`
}
