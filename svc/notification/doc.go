// Package notification sends outbound member communications for an
// organization: transactional email and WhatsApp messages. Every send runs
// the same pipeline: verify plan access, verify the period quota, deliver,
// then record consumption. A denied check surfaces the plan message so the
// caller can show it to the gym owner verbatim.
package notification
