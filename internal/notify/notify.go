package notify

// Dispatcher 定義通知發送介面
// 通知為 best-effort：requestWithdrawal 不因發送失敗而失敗
// 測試時以 FakeDispatcher 替換

type Dispatcher interface {
	Send(to, subject, body string) error
}

type FakeDispatcher struct {
	SendFn func(to, subject, body string) error
}

// Send 執行 Fake 設定或 panic
func (f *FakeDispatcher) Send(to, subject, body string) error {
	if f.SendFn != nil {
		return f.SendFn(to, subject, body)
	}
	panic("unexpected Send")
}
