package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestKind distinguishes the two trackable request families.
type RequestKind string

const (
	KindComplaint      RequestKind = "complaint"
	KindServiceRequest RequestKind = "service_request"
)

// ComplaintStatus enumerates complaint lifecycle states.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

// ServiceRequestStatus enumerates service/borrow request lifecycle states.
type ServiceRequestStatus string

const (
	ServicePending  ServiceRequestStatus = "pending"
	ServiceApproved ServiceRequestStatus = "approved"
	ServiceBorrowed ServiceRequestStatus = "borrowed"
	ServiceReturned ServiceRequestStatus = "returned"
	ServiceRejected ServiceRequestStatus = "rejected"
)

// ValidComplaintStatus reports membership in the complaint status enum.
func ValidComplaintStatus(s string) bool {
	switch ComplaintStatus(s) {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// ValidServiceRequestStatus reports membership in the service request status enum.
func ValidServiceRequestStatus(s string) bool {
	switch ServiceRequestStatus(s) {
	case ServicePending, ServiceApproved, ServiceBorrowed, ServiceReturned, ServiceRejected:
		return true
	}
	return false
}

// RejectingStatus reports whether the status requires an accompanying note.
func RejectingStatus(kind RequestKind, status string) bool {
	return kind == KindServiceRequest && ServiceRequestStatus(status) == ServiceRejected
}

// StatusHistoryEntry is one record of the append-only trail attached to a
// trackable request. Entries are written in the same transaction as the
// status change they describe and are never edited afterwards.
type StatusHistoryEntry struct {
	ID        string
	Kind      RequestKind
	RequestID string
	Action    string
	ActorName string
	Note      *string
	CreatedAt time.Time
}

// Complaint is a resident-filed grievance tracked through triage.
type Complaint struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Priority    string
	Status      ComplaintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceRequest is a facility or equipment borrow request.
type ServiceRequest struct {
	ID        string
	OwnerID   string
	ItemName  string
	Purpose   string
	Category  string
	Quantity  int
	Status    ServiceRequestStatus
	Note      *string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComplaint constructs a pending complaint together with its initial
// "filed" history entry. Construction enforces the invariant that every
// request starts its trail with exactly one system-authored record.
func NewComplaint(ownerID, ownerName, title, description, category, priority string, now time.Time) (Complaint, StatusHistoryEntry) {
	complaint := Complaint{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      ComplaintPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return complaint, NewHistoryEntry(KindComplaint, complaint.ID, "Complaint filed", ownerName, nil, now)
}

// NewServiceRequest constructs a pending service request with its initial
// "filed" history entry.
func NewServiceRequest(ownerID, ownerName, itemName, purpose, category string, quantity int, dueDate *time.Time, now time.Time) (ServiceRequest, StatusHistoryEntry) {
	request := ServiceRequest{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ItemName:  itemName,
		Purpose:   purpose,
		Category:  category,
		Quantity:  quantity,
		Status:    ServicePending,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return request, NewHistoryEntry(KindServiceRequest, request.ID, "Service request filed", ownerName, nil, now)
}

// NewHistoryEntry builds an append-only trail record.
func NewHistoryEntry(kind RequestKind, requestID, action, actorName string, note *string, now time.Time) StatusHistoryEntry {
	return StatusHistoryEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		RequestID: requestID,
		Action:    action,
		ActorName: actorName,
		Note:      note,
		CreatedAt: now,
	}
}

// BulkItemResult is the per-item outcome of a bulk status update.
type BulkItemResult struct {
	ID        string `json:"id"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// BulkResult aggregates a bulk status update. It is transient: constructed
// per request and discarded after the response is sent.
type BulkResult struct {
	Success bool             `json:"success"`
	Updated int              `json:"updated"`
	Failed  int              `json:"failed"`
	Results []BulkItemResult `json:"results"`
}
