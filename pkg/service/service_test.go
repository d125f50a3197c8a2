package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/specgraph/pkg/eventstream"
	"github.com/papercomputeco/specgraph/pkg/propagate"
	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage/filesystem"
	"github.com/papercomputeco/specgraph/pkg/storage/inmemory"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

type recordingPublisher struct {
	events []*eventstream.NodeChangedEvent
	err    error
}

func (p *recordingPublisher) PublishNodeChanged(_ context.Context, event *eventstream.NodeChangedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newNode(id, parent string, status spec.Status, deps ...string) *spec.Node {
	return &spec.Node{
		ID:           id,
		NodeType:     spec.NodeTypeFeature,
		Title:        "Feature " + id,
		Description:  "Description of " + id,
		Status:       status,
		Parent:       parent,
		Dependencies: deps,
	}
}

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		driver    *inmemory.Driver
		publisher *recordingPublisher
		svc       *service.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		publisher = &recordingPublisher{}

		var err error
		svc, err = service.New(service.Config{
			Driver:    driver,
			Publisher: publisher,
			Source:    eventstream.EventSource{Surface: "test"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("requires a driver", func() {
			_, err := service.New(service.Config{})
			Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
		})

		It("rejects a negative max depth", func() {
			_, err := service.New(service.Config{Driver: driver, MaxDepth: -1})
			Expect(spec.ErrorCode(err)).To(Equal(spec.CodeInvalidArgument))
		})
	})

	Describe("Create", func() {
		It("assigns the next free id and fills defaults", func() {
			created, err := svc.Create(ctx, &spec.Node{Title: "Login", Description: "Users can log in"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal("F-001"))
			Expect(created.NodeType).To(Equal(spec.NodeTypeFeature))
			Expect(created.Status).To(Equal(spec.StatusDraft))
			Expect(created.SchemaVersion).To(Equal(spec.CurrentSchemaVersion))
			Expect(created.CreatedAt).NotTo(BeZero())

			second, err := svc.Create(ctx, &spec.Node{Title: "Logout", Description: "Users can log out"})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal("F-002"))
		})

		It("does not modify the caller's node", func() {
			input := &spec.Node{Title: "Login", Description: "d"}
			_, err := svc.Create(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(input.ID).To(BeEmpty())
		})

		It("rejects duplicates and never overwrites", func() {
			_, err := svc.Create(ctx, newNode("F-001", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())

			dup := newNode("F-001", "", spec.StatusActive)
			dup.Title = "Other"
			_, err = svc.Create(ctx, dup)
			Expect(err).To(MatchError(spec.DuplicateIDError{ID: "F-001"}))

			stored, err := svc.Get("F-001")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("Feature F-001"))
		})

		It("publishes a created event", func() {
			_, err := svc.Create(ctx, newNode("F-001", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Action).To(Equal(eventstream.ActionCreated))
			Expect(publisher.events[0].Node.ID).To(Equal("F-001"))
			Expect(publisher.events[0].Source.Surface).To(Equal("test"))
		})

		It("keeps the write when publishing fails", func() {
			publisher.err = errors.New("broker down")
			_, err := svc.Create(ctx, newNode("F-001", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Exists("F-001")).To(BeTrue())
		})
	})

	Describe("Update and Delete", func() {
		BeforeEach(func() {
			_, err := svc.Create(ctx, newNode("F-001", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())
		})

		It("updates a node and records the old status", func() {
			node, err := svc.Get("F-001")
			Expect(err).NotTo(HaveOccurred())
			node.Status = spec.StatusActive

			_, err = svc.Update(ctx, node)
			Expect(err).NotTo(HaveOccurred())

			last := publisher.events[len(publisher.events)-1]
			Expect(last.Action).To(Equal(eventstream.ActionUpdated))
			Expect(last.Node.OldStatus).To(Equal(spec.StatusDraft))
			Expect(last.Node.NewStatus).To(Equal(spec.StatusActive))
		})

		It("returns NotFound when updating a missing node", func() {
			_, err := svc.Update(ctx, newNode("F-404", "", spec.StatusDraft))
			Expect(spec.IsNotFound(err)).To(BeTrue())
		})

		It("deletes idempotently", func() {
			removed, err := svc.Delete(ctx, "F-001")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			removed, err = svc.Delete(ctx, "F-001")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())

			Expect(publisher.events).To(HaveLen(2))
			Expect(publisher.events[1].Action).To(Equal(eventstream.ActionDeleted))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, n := range []*spec.Node{
				newNode("F-001", "", spec.StatusActive),
				newNode("F-001-01", "F-001", spec.StatusDraft),
				newNode("F-002", "", spec.StatusDraft),
			} {
				driver.Put(n)
			}
			tagged, _ := driver.Get("F-002")
			tagged.Tags = []string{"auth"}
			driver.Put(tagged)
		})

		It("filters by glob, status and tag", func() {
			nodes, err := svc.List(service.ListOptions{Match: "F-001*"})
			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(HaveLen(2))

			nodes, err = svc.List(service.ListOptions{Status: spec.StatusDraft})
			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(HaveLen(2))

			nodes, err = svc.List(service.ListOptions{Tag: "auth"})
			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(ConsistOf(HaveField("ID", "F-002")))
		})

		It("rejects a bad status filter", func() {
			_, err := svc.List(service.ListOptions{Status: "done"})
			Expect(spec.ErrorCode(err)).To(Equal(spec.CodeInvalidArgument))
		})
	})

	Describe("graph operations", func() {
		BeforeEach(func() {
			driver.Put(newNode("F-001", "", spec.StatusNeedsReview))
			driver.Put(newNode("F-001-01", "F-001", spec.StatusVerified))
			driver.Put(newNode("F-001-02", "F-001", spec.StatusNeedsReview))
			driver.Put(newNode("F-002", "", spec.StatusVerified))
			driver.Put(newNode("F-010", "", spec.StatusActive, "F-002"))
		})

		It("summarizes the graph", func() {
			summary, err := svc.Summary()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Nodes).To(Equal(5))
			Expect(summary.DependencyEdges).To(Equal(1))
			Expect(summary.Acyclic).To(BeTrue())
		})

		It("rebuilds the graph after writes", func() {
			g1, err := svc.Graph()
			Expect(err).NotTo(HaveOccurred())
			g2, err := svc.Graph()
			Expect(err).NotTo(HaveOccurred())
			Expect(g2).To(BeIdenticalTo(g1))

			_, err = svc.Create(ctx, newNode("F-003", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())

			g3, err := svc.Graph()
			Expect(err).NotTo(HaveOccurred())
			Expect(g3.Has("F-003")).To(BeTrue())
		})

		It("reports cycles in the summary instead of failing", func() {
			driver.Put(newNode("F-002", "", spec.StatusVerified, "F-010"))

			_, err := svc.Graph()
			Expect(spec.ErrorCode(err)).To(Equal(spec.CodeCyclicDependency))

			summary, err := svc.Summary()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Acyclic).To(BeFalse())
			Expect(summary.CycleIDs).To(Equal([]string{"F-002", "F-010"}))
		})

		It("exports the graph", func() {
			path := filepath.Join(GinkgoT().TempDir(), "graph.yaml")
			summary, err := svc.Export(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Nodes).To(Equal(5))
			Expect(path).To(BeARegularFile())
		})

		It("analyzes impact", func() {
			report, err := svc.Impact("F-002", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.MaxDepth).To(Equal(10))
			Expect(report.IDs()).To(Equal([]string{"F-010"}))
		})

		It("computes a dry-run propagation without writing", func() {
			res, err := svc.Propagate(ctx, "F-001-02", spec.StatusVerified, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Applied).To(BeFalse())
			Expect(res.Changes).To(Equal([]propagate.Change{
				{ID: "F-001", OldStatus: spec.StatusNeedsReview, NewStatus: spec.StatusVerified},
			}))

			stored, _ := svc.Get("F-001-02")
			Expect(stored.Status).To(Equal(spec.StatusNeedsReview))
			Expect(publisher.events).To(BeEmpty())
		})

		It("applies a propagation and publishes each write", func() {
			res, err := svc.Propagate(ctx, "F-002", spec.StatusDraft, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Applied).To(BeTrue())
			Expect(res.Changes).To(Equal([]propagate.Change{
				{ID: "F-010", OldStatus: spec.StatusActive, NewStatus: spec.StatusNeedsReview},
			}))

			changed, _ := svc.Get("F-002")
			Expect(changed.Status).To(Equal(spec.StatusDraft))
			dependent, _ := svc.Get("F-010")
			Expect(dependent.Status).To(Equal(spec.StatusNeedsReview))

			Expect(publisher.events).To(HaveLen(2))
			Expect(publisher.events[1].Action).To(Equal(eventstream.ActionPropagated))
			Expect(publisher.events[1].Cause).To(Equal("F-002"))

			again, err := svc.Propagate(ctx, "F-002", spec.StatusDraft, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Changes).To(BeEmpty())
		})

		It("returns NotFound for propagation of an unknown node", func() {
			_, err := svc.Propagate(ctx, "F-404", spec.StatusDraft, true)
			Expect(spec.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("Validate", func() {
		BeforeEach(func() {
			driver.Put(newNode("F-001", "", spec.StatusDraft))
			driver.Put(newNode("F-002", "F-404", spec.StatusDraft))
		})

		It("validates every node", func() {
			res, err := svc.Validate(nil, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Errors).To(ConsistOf(HaveField("Rule", validate.RuleUnresolvedParent)))
			Expect(res.Warnings).NotTo(BeEmpty())
		})

		It("escalates the condition count in strict mode", func() {
			res, err := svc.Validate([]string{"F-001"}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Errors).To(ConsistOf(HaveField("Rule", validate.RuleMinConditions)))
		})

		It("returns NotFound for an unknown exact id", func() {
			_, err := svc.Validate([]string{"F-404"}, false)
			Expect(spec.IsNotFound(err)).To(BeTrue())
		})

		It("accepts globs that match nothing", func() {
			res, err := svc.Validate([]string{"F-9*"}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Errors).To(BeEmpty())
		})
	})

	Describe("backups", func() {
		It("reports drivers without snapshot support", func() {
			_, err := svc.Backup()
			Expect(err).To(MatchError(ContainSubstring("does not support backups")))
		})

		It("backs up and restores through a filesystem store", func() {
			root := GinkgoT().TempDir()
			now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
			store := filesystem.New(root, filesystem.WithClock(func() time.Time {
				now = now.Add(time.Second)
				return now
			}))

			fsSvc, err := service.New(service.Config{Driver: store})
			Expect(err).NotTo(HaveOccurred())

			written, err := fsSvc.Init()
			Expect(err).NotTo(HaveOccurred())
			Expect(written).To(BeTrue())

			_, err = fsSvc.Create(ctx, newNode("F-001", "", spec.StatusDraft))
			Expect(err).NotTo(HaveOccurred())

			snap, err := fsSvc.Backup()
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Count).To(Equal(1))

			node, _ := fsSvc.Get("F-001")
			node.Title = "Changed"
			_, err = fsSvc.Update(ctx, node)
			Expect(err).NotTo(HaveOccurred())

			g, err := fsSvc.Graph()
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Get("F-001").Title).To(Equal("Changed"))

			n, err := fsSvc.Restore(snap.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))

			g, err = fsSvc.Graph()
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Get("F-001").Title).To(Equal("Feature F-001"))

			backups, err := fsSvc.ListBackups()
			Expect(err).NotTo(HaveOccurred())
			Expect(backups).To(HaveLen(1))

			_, err = os.Stat(filepath.Join(root, filesystem.SchemaMarker))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
