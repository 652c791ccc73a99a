// Package services implements the driving ports on top of the driven ones.
//
// AuditService and TemplateService manage the records an audit is made of.
// AnalysisService runs the extraction, prompt, completion and parsing steps
// for one document or a whole audit. SettingsService resolves configuration
// from defaults, the config store and DOCAUDIT_* environment variables.
package services
