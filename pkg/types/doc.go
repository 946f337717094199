// Package types defines the domain records (users and the insurance policy
// variants), the repository interfaces the stores implement, the session
// configuration, and the standard errors shared by every layer of coverdesk.
package types
