package remote

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/jsonrpc2"

	"src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/store"
)

// Program is the daemon subprogram.
type Program struct {
	run   bool
	paths *prog.DaemonPaths
	// Used in tests.
	serveOpts ServeOpts
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "daemon", false,
		"Run the storage daemon serving lookups and uploads")
	p.paths = fs.DaemonPaths()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.NextProgram()
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -daemon")
	}
	if err := p.paths.Resolve(); err != nil {
		return err
	}
	return prog.Exit(Serve(p.paths.Sock, p.paths.DB, p.serveOpts))
}

// ServeOpts keeps options that can be passed to Serve.
type ServeOpts struct {
	// If not nil, will be closed when the daemon is ready to serve requests.
	Ready chan<- struct{}
	// Causes the daemon to abort if closed or sent any date. If nil, Serve will
	// set up its own signal channel by listening to SIGINT and SIGTERM.
	Signals <-chan os.Signal
}

// Serve runs the daemon service, listening on the socket specified by
// sockpath and serving data from dbpath until it receives a signal. It
// returns the exit status.
func Serve(sockpath, dbpath string, opts ServeOpts) int {
	logger.Println("pid is", syscall.Getpid())
	logger.Println("going to listen", sockpath)
	listener, err := net.Listen("unix", sockpath)
	if err != nil {
		logger.Printf("failed to listen on %s: %v", sockpath, err)
		logger.Println("aborting")
		return 2
	}

	var svc service
	st, err := store.NewStore(dbpath)
	if err != nil {
		logger.Printf("failed to create storage: %v", err)
		logger.Printf("serving anyway")
		svc.err = err
	} else {
		svc.st = st
		defer func() {
			if err := st.Close(); err != nil {
				logger.Printf("failed to close storage: %v", err)
			}
		}()
	}
	handler := svc.handler()

	connCh := make(chan net.Conn, 10)
	listenErrCh := make(chan error, 1)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				listenErrCh <- err
				close(listenErrCh)
				return
			}
			connCh <- conn
		}
	}()

	sigCh := opts.Signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(ch)
		sigCh = ch
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conns := make(map[*jsonrpc2.Conn]struct{})
	connDoneCh := make(chan *jsonrpc2.Conn)

	closeAll := func() {
		logger.Printf("going to close %v active connections", len(conns))
		for conn := range conns {
			// Ignore the error; the client may have already gone away.
			conn.Close()
		}
	}

	if opts.Ready != nil {
		close(opts.Ready)
	}

	for {
		select {
		case nc := <-connCh:
			conn := jsonrpc2.NewConn(ctx,
				jsonrpc2.NewBufferedStream(nc, jsonrpc2.VSCodeObjectCodec{}), handler)
			conns[conn] = struct{}{}
			logger.Printf("new client, %v active", len(conns))
			go func() {
				select {
				case <-conn.DisconnectNotify():
					select {
					case connDoneCh <- conn:
					case <-ctx.Done():
					}
				case <-ctx.Done():
				}
			}()
		case conn := <-connDoneCh:
			delete(conns, conn)
			logger.Printf("client gone, %v active", len(conns))
		case err := <-listenErrCh:
			logger.Println("could not listen:", err)
			closeAll()
			logger.Println("exiting")
			return 2
		case sig := <-sigCh:
			logger.Printf("received signal %v", sig)
			closeAll()
			if err := listener.Close(); err != nil {
				logger.Printf("failed to close listener: %v", err)
			}
			logger.Println("exiting")
			return 0
		}
	}
}
