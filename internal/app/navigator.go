package app

import (
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/chat"
	"github.com/abhisek/studytutor/internal/screens/credential"
	"github.com/abhisek/studytutor/internal/screens/guided"
	"github.com/abhisek/studytutor/internal/screens/home"
	"github.com/abhisek/studytutor/internal/screens/login"
	"github.com/abhisek/studytutor/internal/screens/practice"
	"github.com/abhisek/studytutor/internal/screens/usage"
	"github.com/abhisek/studytutor/internal/session"
)

// navigator builds screens bound to one session. The flow is
// login → credential → home, and home leads back to either.
type navigator struct {
	opts    Options
	sess    *session.AppSession
	connect session.Connector
}

func newNavigator(opts Options, sess *session.AppSession) *navigator {
	return &navigator{opts: opts, sess: sess, connect: opts.connector()}
}

func (n *navigator) login() screen.Screen {
	return login.New(n.opts.Gate, n.sess, n.opts.EventRepo, n.credential)
}

func (n *navigator) credential() screen.Screen {
	return credential.New(n.sess, n.connect, n.opts.LLM.DisplayName(), n.opts.EventRepo, n.home)
}

func (n *navigator) home() screen.Screen {
	screens := home.Screens{
		Guided:     func() screen.Screen { return guided.New(n.sess) },
		Practice:   func() screen.Screen { return practice.New(n.sess, n.opts.EventRepo) },
		Chat:       func() screen.Screen { return chat.New(n.sess) },
		Credential: n.credential,
		Login:      n.login,
	}
	if n.opts.EventRepo != nil {
		screens.Usage = func() screen.Screen {
			return usage.New(n.opts.EventRepo, n.sess.ID())
		}
	}
	return home.New(n.sess, n.opts.EventRepo, screens)
}
