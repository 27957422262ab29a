// Package core contains the shared contracts of the platform client: runtime
// configuration, the error taxonomy, the platform response envelope, the
// transport contract and the logging/metrics hooks. Feature packages
// (credentials, signature, webhooks, oauth) depend on core; core must not
// depend on them.
package core
