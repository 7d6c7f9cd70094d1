package kernel

import (
	"bytes"
	"io"
	"log"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/userkernel/exception"
	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/mem/frame"
	"github.com/sarchlab/userkernel/mem/vm"
	"github.com/sarchlab/userkernel/sim"
	"github.com/sarchlab/userkernel/userprog"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Kernel", func() {
	var (
		mockCtrl  *gomock.Controller
		processor *machine.Processor
		logBuf    *bytes.Buffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		processor = machine.MakeBuilder().
			WithPageSize(512).
			WithNumPhysPages(4).
			Build("CPU")
		logBuf = new(bytes.Buffer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	build := func() Builder {
		return MakeBuilder().
			WithProcessor(processor).
			WithLogger(log.New(logBuf, "", 0))
	}

	It("should boot with the geometry of the processor", func() {
		k := build().Build("Kernel")

		Expect(k.Initialize([]string{"-d", "a"})).To(Succeed())

		Expect(k.Name()).To(Equal("Kernel"))
		Expect(k.Processor()).To(BeIdenticalTo(processor))
		Expect(k.Geometry().PageSize()).To(Equal(uint64(512)))
		Expect(k.Geometry().OffsetBits()).To(Equal(uint64(9)))
		Expect(k.Frames().NumFrames()).To(Equal(4))
		Expect(k.Frames().NumFree()).To(Equal(4))
		Expect(k.PageTable().Log2PageSize()).To(Equal(uint64(9)))
		Expect(k.Router()).NotTo(BeNil())
		Expect(k.Scheduler()).NotTo(BeNil())
		Expect(logBuf.String()).To(ContainSubstring("booted"))
	})

	It("should refuse to boot on a page size that is not a power of two", func() {
		processor = machine.MakeBuilder().
			WithPageSize(1000).
			WithNumPhysPages(4).
			Build("CPU")
		k := build().Build("Kernel")

		err := k.Initialize(nil)

		Expect(err).To(MatchError(vm.ErrPageSizeNotPowerOfTwo))
		Expect(k.Frames()).To(BeNil())

		_, err = k.Run(userprog.TouchPages(1, 1000))
		Expect(err).To(MatchError(ErrNotInitialized))
	})

	It("should not boot twice", func() {
		k := build().Build("Kernel")

		Expect(k.Initialize(nil)).To(Succeed())
		Expect(k.Initialize(nil)).To(MatchError(ErrAlreadyInitialized))
	})

	It("should route exceptions raised outside of a process to a panic", func() {
		k := build().Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		Expect(func() {
			processor.RaiseException(machine.ExceptionSyscall, 0)
		}).To(PanicWith(MatchError(exception.ErrNoProcessContext)))
	})

	It("should run a program to completion", func() {
		k := build().Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		status, err := k.Run(userprog.TouchPages(4, 512))

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(0))
		Expect(k.Frames().NumFree()).To(Equal(4))
	})

	It("should kill a program that needs too many frames", func() {
		k := build().Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		status, err := k.Run(userprog.TouchPages(5, 512))

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(userprog.ExitKilled))
		Expect(k.Frames().NumFree()).To(Equal(4))
	})

	It("should run programs one after another", func() {
		k := build().Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		for i := 0; i < 3; i++ {
			status, err := k.Run(userprog.Program{Steps: []userprog.Step{
				userprog.Store(0, 1),
				userprog.Syscall(userprog.SyscallExit, uint64(i)),
			}})

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(i))
		}
	})

	It("should attach hooks when it boots", func() {
		hook := NewMockHook(mockCtrl)
		counts := make(map[*sim.HookPos]int)
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) { counts[ctx.Pos]++ }).
			AnyTimes()

		k := build().WithHooks(hook).Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		_, err := k.Run(userprog.TouchPages(2, 512))
		Expect(err).NotTo(HaveOccurred())

		Expect(counts[frame.HookPosFrameAllocated]).To(Equal(2))
		Expect(counts[frame.HookPosFrameFreed]).To(Equal(2))
		Expect(counts[exception.HookPosBeforeDispatch]).To(Equal(3))
		Expect(counts[exception.HookPosAfterDispatch]).To(Equal(3))
	})

	It("should flush recorders once on termination", func() {
		recorder := NewMockRecorder(mockCtrl)
		recorder.EXPECT().Flush().Times(1)

		k := build().WithRecorders(recorder).Build("Kernel")
		Expect(k.Initialize(nil)).To(Succeed())

		k.Terminate()
		k.Terminate()

		Expect(logBuf.String()).To(ContainSubstring("4 of 4 frames free"))
	})

	Context("self test", func() {
		It("should echo until q is typed", func() {
			out := new(bytes.Buffer)
			console := machine.NewStreamConsole(strings.NewReader("hi qx"), out)
			k := build().WithConsole(console).Build("Kernel")

			Expect(k.SelfTest()).To(Succeed())

			Expect(out.String()).To(HavePrefix("Testing the console device."))
			Expect(out.String()).To(HaveSuffix("hi q\r\n"))
		})

		It("should fail if the console closes before q", func() {
			console := machine.NewStreamConsole(
				strings.NewReader("abc"), io.Discard)
			k := build().WithConsole(console).Build("Kernel")

			Expect(k.SelfTest()).To(MatchError(io.EOF))
		})

		It("should fail without a console", func() {
			k := build().Build("Kernel")

			Expect(k.SelfTest()).To(MatchError(ErrNoConsole))
		})
	})
})
