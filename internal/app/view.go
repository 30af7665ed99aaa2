package app

import "aura/internal/session"

// multiView рассылает обновления сессии всем отображениям по порядку.
type multiView []session.View

var _ session.View = multiView(nil)

func (m multiView) SetStatus(s session.Status) {
	for _, v := range m {
		v.SetStatus(s)
	}
}

func (m multiView) SetTranscript(t session.Transcript) {
	for _, v := range m {
		v.SetTranscript(t)
	}
}

func (m multiView) SetControl(c session.Control) {
	for _, v := range m {
		v.SetControl(c)
	}
}

func (m multiView) SetState(s session.State) {
	for _, v := range m {
		v.SetState(s)
	}
}

func (m multiView) DimStatus() {
	for _, v := range m {
		v.DimStatus()
	}
}
