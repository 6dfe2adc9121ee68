// Package checker implements the independent signal probes behind a link
// analysis: SSL certificate inspection, WHOIS age lookup, DNS resolution,
// HTTP security headers, reputation feeds, and geo-IP.
//
// Every probe returns a structured payload; failures are recorded as an
// error marker on the payload and never abort the surrounding job. Absence
// of data is itself a signal and is scored by the aggregator's conservative
// defaults, never as "safe".
package checker
