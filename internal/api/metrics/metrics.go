// Package metrics defines and registers all custom Prometheus metrics for the
// taskhive API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskhive"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user accounts created.",
	},
)

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly created projects.
var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created.",
	},
)

// MembersAddedTotal counts roster additions.
// Label:
//   - role: "admin", "project_admin", or "member"
var MembersAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "members_added_total",
		Help:      "Total number of members added to projects, by role.",
	},
	[]string{"role"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium", or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// AttachmentsUploadedTotal counts attachment uploads.
var AttachmentsUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachments_uploaded_total",
		Help:      "Total number of attachments uploaded to tasks.",
	},
)

// AttachmentBytesTotal sums the sizes of uploaded attachments.
var AttachmentBytesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_bytes_total",
		Help:      "Total bytes of attachment payloads stored.",
	},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NotesCreatedTotal counts newly created notes.
var NotesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created.",
	},
)
