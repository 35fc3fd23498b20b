// Package changememberstatus suspends, expires or reactivates a member.
package changememberstatus
