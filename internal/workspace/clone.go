package workspace

func Clone(workspaces []Workspace) []Workspace {
	if workspaces == nil {
		return nil
	}
	out := make([]Workspace, len(workspaces))
	for i, ws := range workspaces {
		out[i] = cloneWorkspace(ws)
	}
	return out
}

func cloneWorkspace(ws Workspace) Workspace {
	out := ws
	if ws.Pages != nil {
		out.Pages = make([]Page, len(ws.Pages))
		for i, p := range ws.Pages {
			out.Pages[i] = clonePage(p)
		}
	}
	return out
}

func clonePage(p Page) Page {
	out := p
	if p.Blocks != nil {
		out.Blocks = make([]Block, len(p.Blocks))
		for i, b := range p.Blocks {
			out.Blocks[i] = cloneBlock(b)
		}
	}
	return out
}

func cloneBlock(b Block) Block {
	out := b
	if b.Content != nil {
		out.Content = b.Content.clone()
	}
	return out
}
