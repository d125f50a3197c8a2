package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage/filesystem"
	"github.com/papercomputeco/specgraph/pkg/watch"
)

type reportLog struct {
	mu      sync.Mutex
	reports []watch.Report
}

func (l *reportLog) add(r watch.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, r)
}

func (l *reportLog) all() []watch.Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]watch.Report(nil), l.reports...)
}

var _ = Describe("Watcher", func() {
	var (
		ctx   context.Context
		root  string
		store *filesystem.Store
		svc   *service.Service
		log   *reportLog
	)

	BeforeEach(func() {
		ctx = context.Background()
		root = GinkgoT().TempDir()
		store = filesystem.New(root)
		_, err := store.Init()
		Expect(err).NotTo(HaveOccurred())

		svc, err = service.New(service.Config{Driver: store})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Create(ctx, &spec.Node{Title: "Login", Description: "Users can log in"})
		Expect(err).NotTo(HaveOccurred())

		log = &reportLog{}
	})

	Describe("New", func() {
		It("requires a service, a directory and a handler", func() {
			_, err := watch.New(watch.Config{Dir: store.SpecsPath(), OnReport: log.add})
			Expect(err).To(MatchError(ContainSubstring("service is required")))

			_, err = watch.New(watch.Config{Service: svc, OnReport: log.add})
			Expect(err).To(MatchError(ContainSubstring("specs directory is required")))

			_, err = watch.New(watch.Config{Service: svc, Dir: store.SpecsPath()})
			Expect(err).To(MatchError(ContainSubstring("report handler is required")))
		})
	})

	Describe("Check", func() {
		It("validates and reports", func() {
			w, err := watch.New(watch.Config{Service: svc, Dir: store.SpecsPath(), OnReport: log.add})
			Expect(err).NotTo(HaveOccurred())

			r := w.Check(nil)
			Expect(r.Err).NotTo(HaveOccurred())
			Expect(r.Result.Errors).To(BeEmpty())
			Expect(r.Result.Warnings).NotTo(BeEmpty())
			Expect(r.Summary).To(BeNil())
			Expect(log.all()).To(HaveLen(1))
		})

		It("reports strict mode errors", func() {
			w, err := watch.New(watch.Config{Service: svc, Dir: store.SpecsPath(), Strict: true, OnReport: log.add})
			Expect(err).NotTo(HaveOccurred())

			r := w.Check(nil)
			Expect(r.Result.Errors).NotTo(BeEmpty())
		})

		It("re-exports the graph when an export path is set", func() {
			out := filepath.Join(root, "graph.json")
			w, err := watch.New(watch.Config{
				Service:    svc,
				Dir:        store.SpecsPath(),
				ExportPath: out,
				OnReport:   log.add,
			})
			Expect(err).NotTo(HaveOccurred())

			r := w.Check(nil)
			Expect(r.Err).NotTo(HaveOccurred())
			Expect(r.Summary).NotTo(BeNil())
			Expect(r.Summary.Nodes).To(Equal(1))

			_, err = os.Stat(out)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Run", func() {
		It("reports on start and after a record changes", func() {
			w, err := watch.New(watch.Config{
				Service:  svc,
				Dir:      store.SpecsPath(),
				Debounce: 20 * time.Millisecond,
				OnReport: log.add,
			})
			Expect(err).NotTo(HaveOccurred())

			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				done <- w.Run(runCtx)
			}()
			DeferCleanup(func() {
				cancel()
				Eventually(done).Should(Receive(BeNil()))
			})

			Eventually(func() int { return len(log.all()) }).Should(Equal(1))

			_, err = svc.Create(ctx, &spec.Node{Title: "Logout", Description: "Users can log out"})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() []string {
				reports := log.all()
				return reports[len(reports)-1].Changed
			}, 2*time.Second).Should(ContainElement(HaveSuffix("F-002.json")))
		})

		It("fails when the directory does not exist", func() {
			w, err := watch.New(watch.Config{
				Service:  svc,
				Dir:      filepath.Join(root, "missing"),
				OnReport: log.add,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(w.Run(ctx)).To(MatchError(ContainSubstring("watching")))
		})
	})
})
