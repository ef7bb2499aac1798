package sh

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/link"
	"github.com/robotalks/baseboard.go/pkg/robot"
)

// Shell provides ishell backed interactive shell over a local baseboard.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *robot.Config
	Session *Session

	// Open opens the serial port, link.Open if nil.
	Open func(device string, opts link.PortOptions) (link.Port, error)
}

// Session is a running robot on an opened port.
type Session struct {
	Device string
	Robot  *robot.Robot

	cancel func()
	doneCh chan error
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DevicesCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *robot.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context, r *robot.Robot)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Session == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c, s.Session.Robot)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the device and starts the robot on it.
func (s *Shell) Connect(device string) error {
	open := s.Open
	if open == nil {
		open = link.Open
	}
	port, err := open(device, s.Config.Port)
	if err != nil {
		return err
	}
	r, err := robot.New(s.Config, port)
	if err != nil {
		port.Close()
		return err
	}
	s.Disconnect()
	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{Device: device, Robot: r, cancel: cancel, doneCh: make(chan error, 1)}
	go func() {
		err := r.Run(ctx)
		if err != nil {
			glog.Errorf("%s: %v", device, err)
		}
		sess.doneCh <- err
	}()
	s.Session = sess
	s.setPrompt(fmt.Sprintf("%s > ", device))
	return nil
}

// Disconnect stops the robot and closes the port.
func (s *Shell) Disconnect() error {
	if s.Session == nil {
		return nil
	}
	sess := s.Session
	s.Session = nil
	s.setPrompt(unconnectedPrompt)
	sess.cancel()
	return <-sess.doneCh
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Device != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Device)
		}
		if err := s.Connect(s.Config.Device); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Device, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DevicesCmd lists serial devices.
	DevicesCmd = ishell.Cmd{
		Name:    "devices",
		Aliases: []string{"list", "l"},
		Help:    "list serial devices",
		Func: func(c *ishell.Context) {
			devices, err := link.Devices()
			if err != nil {
				c.Err(err)
				return
			}
			if len(devices) == 0 {
				c.Println("No serial devices found")
				return
			}
			for _, dev := range devices {
				c.Println(dev)
			}
		},
	}

	// ConnectCmd opens a baseboard.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			device := s.Config.Device
			if len(c.Args) > 0 {
				device = c.Args[0]
			}
			if err := s.Connect(device); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes current baseboard.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Disconnect(); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(robot.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
