// Package logging builds the slog loggers used across Cleaver.
//
// It provides a console handler that promotes the component attribute into a
// readable prefix, a JSON handler for machine consumption, attr helper
// aliases, and standardized field keys (component, session_id, segment_id,
// correlation_id) so log output stays greppable across packages.
package logging
