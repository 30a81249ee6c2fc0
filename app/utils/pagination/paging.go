package pagination

const DefaultBlockSize = 5

// PagingInfo is the navigation metadata rendered under a list page.
// CurrentPage, StartPage and EndPage are 1-based.
type PagingInfo struct {
	TotalElements int64
	TotalPages    int
	PageSize      int
	CurrentPage   int
	StartPage     int
	EndPage       int
	HasPrev       bool
	HasNext       bool
	PrevPage      int
	NextPage      int
}

// NormalizePage clamps a caller supplied 1-based page number.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset converts a 1-based page into a row offset.
func Offset(page, size int) int {
	return (NormalizePage(page) - 1) * size
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func New(total int64, page, size int) PagingInfo {
	return NewWithBlock(total, page, size, DefaultBlockSize)
}

func NewWithBlock(total int64, page, size, block int) PagingInfo {
	page = NormalizePage(page)
	if block < 1 {
		block = DefaultBlockSize
	}
	totalPages := TotalPages(total, size)

	start := ((page-1)/block)*block + 1
	end := start + block - 1
	if end > totalPages {
		end = totalPages
	}
	if end < start {
		end = start
	}

	info := PagingInfo{
		TotalElements: total,
		TotalPages:    totalPages,
		PageSize:      size,
		CurrentPage:   page,
		StartPage:     start,
		EndPage:       end,
		HasPrev:       start > 1,
		HasNext:       end < totalPages,
	}
	if info.HasPrev {
		info.PrevPage = start - 1
	}
	if info.HasNext {
		info.NextPage = end + 1
	}
	return info
}

// Pages lists the page numbers of the current block.
func (p PagingInfo) Pages() []int {
	pages := make([]int, 0, p.EndPage-p.StartPage+1)
	for i := p.StartPage; i <= p.EndPage; i++ {
		pages = append(pages, i)
	}
	return pages
}
